package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttempts struct {
	created *dto.AttemptCreatedDTO
	err     error

	userID uint
	locale string
	req    dto.CreateAttemptRequest
	calls  int
}

func (f *fakeAttempts) CreateAttempt(_ context.Context, userID uint, locale string, req dto.CreateAttemptRequest) (*dto.AttemptCreatedDTO, error) {
	f.calls++
	f.userID, f.locale, f.req = userID, locale, req
	return f.created, f.err
}

func (f *fakeAttempts) GetAttempt(context.Context, uint, uint) (*dto.AttemptDetailDTO, error) {
	return nil, &service.Error{Code: service.CodeNotFound, Message: "attempt not found"}
}

func (f *fakeAttempts) ListMyAttempts(context.Context, uint, *uint) ([]dto.AttemptSummaryDTO, error) {
	return []dto.AttemptSummaryDTO{}, nil
}

type fakeSubmissions struct {
	checkErr  error
	submitErr error
	result    *dto.SubmitAttemptResultDTO

	checks  int
	submits int
	req     dto.SubmitAttemptRequest
}

func (f *fakeSubmissions) CheckSubmittable(context.Context, uint, uint) error {
	f.checks++
	return f.checkErr
}

func (f *fakeSubmissions) SubmitAttempt(_ context.Context, _ uint, attemptID uint, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResultDTO, error) {
	f.submits++
	f.req = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

type fakeCoach struct{}

func (fakeCoach) Coach(context.Context, uint, uint) (*dto.CoachingDTO, error) {
	return nil, &service.Error{Code: service.CodeCoachUnavailable, Message: "study coaching is not configured"}
}

func newAttemptRouter(as service.AttemptService, ss service.SubmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewAttemptController(as, ss, fakeCoach{})
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(2))
		c.Set(middleware.ContextLocale, "es")
		c.Next()
	})
	router.POST("/attempts", ctrl.CreateAttempt)
	router.POST("/attempts/:attempt_id/submit", ctrl.SubmitAttempt)
	router.GET("/attempts/:attempt_id", ctrl.GetAttempt)
	router.GET("/attempts/:attempt_id/coaching", ctrl.GetCoaching)
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestCreateAttemptHandler(t *testing.T) {
	attempts := &fakeAttempts{created: &dto.AttemptCreatedDTO{
		AttemptID:      41,
		Sections:       []dto.AttemptSectionDTO{{AttemptSectionID: 5, SectionID: 1, Code: "ENG", Name: "English", OrderNo: 1, TimeLimitSec: 2700, QuestionCount: 2}},
		TotalQuestions: 2,
	}}
	router := newAttemptRouter(attempts, &fakeSubmissions{})

	w := post(router, "/attempts", `{"courseId":3,"attemptKind":"diagnostic"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{
		"attemptId": 41,
		"sections": [{"attemptSectionId":5,"sectionId":1,"code":"ENG","name":"English","orderNo":1,"timeLimitSec":2700,"questionCount":2}],
		"totalQuestions": 2
	}`, w.Body.String())
	assert.Equal(t, uint(2), attempts.userID)
	assert.Equal(t, "es", attempts.locale)
	assert.Equal(t, dto.CreateAttemptRequest{CourseID: 3, AttemptKind: "diagnostic"}, attempts.req)
}

func TestCreateAttemptHandlerRejectsBadBody(t *testing.T) {
	attempts := &fakeAttempts{}
	router := newAttemptRouter(attempts, &fakeSubmissions{})

	for _, body := range []string{`{"courseId":3,"attemptKind":"mock"}`, `{"attemptKind":"practice"}`, `not json`} {
		w := post(router, "/attempts", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w), body)
	}
	assert.Zero(t, attempts.calls)
}

func TestCreateAttemptHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		code   service.ErrorCode
		status int
	}{
		{service.CodeUnauthenticated, http.StatusUnauthorized},
		{service.CodeNotFound, http.StatusNotFound},
		{service.CodeInvalidCourseType, http.StatusBadRequest},
		{service.CodeNoBlueprint, http.StatusBadRequest},
		{service.CodeSectionsError, http.StatusInternalServerError},
		{service.CodeInsufficientQuestions, http.StatusInternalServerError},
		{service.CodeDatabase, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			router := newAttemptRouter(&fakeAttempts{err: &service.Error{Code: tc.code, Message: "failed"}}, &fakeSubmissions{})
			w := post(router, "/attempts", `{"courseId":3}`)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, string(tc.code), errorCode(t, w))
		})
	}
}

func TestSubmitAttemptHandlerDecodesAnswers(t *testing.T) {
	scaled := 29
	subs := &fakeSubmissions{result: &dto.SubmitAttemptResultDTO{
		AttemptID: 41,
		ScoreReport: dto.ScoreReportDTO{
			Sections:    []dto.SectionScoreDTO{},
			Overall:     dto.OverallScoreDTO{RawScore: 2, TotalItems: 2, ScaledScore: &scaled, ReportedScore: 29, Method: "mean"},
			TestCode:    "ACT",
			CompletedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	router := newAttemptRouter(&fakeAttempts{}, subs)

	w := post(router, "/attempts/41/submit", `{"answers":{"1":"A","2":"C"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[int]string{1: "A", 2: "C"}, subs.req.Answers)
	assert.JSONEq(t, `{
		"attemptId": 41,
		"scoreReport": {
			"sections": [],
			"overall": {"rawScore":2,"totalItems":2,"scaledScore":29,"reportedScore":29,"method":"mean"},
			"testCode": "ACT",
			"completedAt": "2026-03-01T10:00:00Z"
		}
	}`, w.Body.String())
}

func TestSubmitAttemptHandlerChecksAttemptBeforeBody(t *testing.T) {
	bodies := []string{`{"answers":{"abc":"A"}}`, `{"answers":{"1":2}}`, `not json`, `{"answers":{"1":"A"}}`}
	cases := []struct {
		code   service.ErrorCode
		status int
	}{
		{service.CodeUnauthorized, http.StatusForbidden},
		{service.CodeAlreadyCompleted, http.StatusBadRequest},
		{service.CodeNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		for _, body := range bodies {
			t.Run(string(tc.code)+" "+body, func(t *testing.T) {
				subs := &fakeSubmissions{checkErr: &service.Error{Code: tc.code, Message: "rejected"}}
				w := post(newAttemptRouter(&fakeAttempts{}, subs), "/attempts/41/submit", body)
				assert.Equal(t, tc.status, w.Code)
				assert.Equal(t, string(tc.code), errorCode(t, w))
				assert.Equal(t, 1, subs.checks)
				assert.Zero(t, subs.submits)
			})
		}
	}
}

func TestSubmitAttemptHandlerRejectsBadBodyForSubmittableAttempt(t *testing.T) {
	for _, body := range []string{`{"answers":{"abc":"A"}}`, `{"answers":{"1":2}}`, `not json`} {
		subs := &fakeSubmissions{}
		w := post(newAttemptRouter(&fakeAttempts{}, subs), "/attempts/41/submit", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w), body)
		assert.Zero(t, subs.submits, body)
	}
}

func TestSubmitAttemptHandlerLostRace(t *testing.T) {
	subs := &fakeSubmissions{submitErr: &service.Error{Code: service.CodeAlreadyCompleted, Message: "attempt already completed"}}
	w := post(newAttemptRouter(&fakeAttempts{}, subs), "/attempts/41/submit", `{"answers":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ALREADY_COMPLETED", errorCode(t, w))
}

func TestAttemptReadHandlersMapErrors(t *testing.T) {
	router := newAttemptRouter(&fakeAttempts{}, &fakeSubmissions{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attempts/41", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attempts/41/coaching", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "COACH_UNAVAILABLE", errorCode(t, w))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attempts/zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
