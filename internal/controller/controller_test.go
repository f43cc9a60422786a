package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[service.ErrorCode]int{
		service.CodeUnauthenticated:       http.StatusUnauthorized,
		service.CodeUnauthorized:          http.StatusForbidden,
		service.CodeNotFound:              http.StatusNotFound,
		service.CodeAlreadyCompleted:      http.StatusBadRequest,
		service.CodeInvalidCourseType:     http.StatusBadRequest,
		service.CodeNoBlueprint:           http.StatusBadRequest,
		service.CodeValidation:            http.StatusBadRequest,
		service.CodeBlueprintInUse:        http.StatusBadRequest,
		service.CodeConflict:              http.StatusConflict,
		service.CodeCoachUnavailable:      http.StatusServiceUnavailable,
		service.CodeSectionsError:         http.StatusInternalServerError,
		service.CodeInsufficientQuestions: http.StatusInternalServerError,
		service.CodeDatabase:              http.StatusInternalServerError,
		service.CodeInternal:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), string(code))
	}
}

func respond(err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(ctx, "test", err)

	var body dto.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondError(t *testing.T) {
	w, body := respond(&service.Error{Code: service.CodeAlreadyCompleted, Message: "attempt already completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ALREADY_COMPLETED", body.Code)
	assert.Equal(t, "attempt already completed", body.Error)

	w, body = respond(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "internal server error", body.Error)
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/attempts/:attempt_id", func(c *gin.Context) {
		id, ok := ParseIDParam(c, "attempt_id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attempts/12", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":12}`, w.Body.String())

	for _, bad := range []string{"0", "abc", "-1"} {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attempts/"+bad, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, bad)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
	}
}
