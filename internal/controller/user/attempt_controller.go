package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService    service.AttemptService
	submissionService service.SubmissionService
	coachService      service.StudyCoachService
}

func NewAttemptController(as service.AttemptService, ss service.SubmissionService, cs service.StudyCoachService) *AttemptController {
	return &AttemptController{
		attemptService:    as,
		submissionService: ss,
		coachService:      cs,
	}
}

// CreateAttempt godoc
// @Summary (User) Start a new exam attempt
// @Description Assembles an attempt from the course's active blueprint. Items are numbered 1..N by section order, then rule order.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param locale query string false "Locale for item text (falls back to Accept-Language, then the default)"
// @Param attempt body dto.CreateAttemptRequest true "Course and attempt kind"
// @Success 201 {object} dto.AttemptCreatedDTO
// @Failure 400 {object} dto.ErrorResponse "INVALID_COURSE_TYPE, NO_BLUEPRINT or invalid body"
// @Failure 401 {object} dto.ErrorResponse "UNAUTHENTICATED"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "SECTIONS_ERROR, INSUFFICIENT_QUESTIONS or DATABASE_ERROR"
// @Router /attempts [post]
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return
	}
	var req dto.CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User CreateAttempt: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.attemptService.CreateAttempt(ctx.Request.Context(), userID, middleware.Locale(ctx), req)
	if err != nil {
		controller.RespondError(ctx, "CreateAttempt", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SubmitAttempt godoc
// @Summary (User) Submit answers and grade an attempt
// @Description Grades every item, converts raw scores to scaled scores and completes the attempt. An attempt can be submitted once.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param answers body dto.SubmitAttemptRequest true "Answers keyed by item number"
// @Success 200 {object} dto.SubmitAttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "ALREADY_COMPLETED, INVALID_COURSE_TYPE or invalid body"
// @Failure 401 {object} dto.ErrorResponse "UNAUTHENTICATED"
// @Failure 403 {object} dto.ErrorResponse "UNAUTHORIZED"
// @Failure 404 {object} dto.ErrorResponse "NOT_FOUND"
// @Failure 500 {object} dto.ErrorResponse "DATABASE_ERROR"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	// Ownership and completion are reported regardless of the body.
	if err := c.submissionService.CheckSubmittable(ctx.Request.Context(), userID, attemptID); err != nil {
		controller.RespondError(ctx, "SubmitAttempt", err)
		return
	}
	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("User SubmitAttempt: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.submissionService.SubmitAttempt(ctx.Request.Context(), userID, attemptID, req)
	if err != nil {
		controller.RespondError(ctx, "SubmitAttempt", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListMyAttempts godoc
// @Summary (User) List my attempts
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param course_id query int false "Only attempts for this course"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := controller.ParseOptionalIDQuery(ctx, "course_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.ListMyAttempts(ctx.Request.Context(), userID, courseID)
	if err != nil {
		controller.RespondError(ctx, "ListMyAttempts", err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttempt godoc
// @Summary (User) Get one of my attempts
// @Description Answers and explanations are only included once the attempt is completed.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	detail, err := c.attemptService.GetAttempt(ctx.Request.Context(), userID, attemptID)
	if err != nil {
		controller.RespondError(ctx, "GetAttempt", err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetCoaching godoc
// @Summary (User) AI study advice for a completed attempt
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.CoachingDTO
// @Failure 400 {object} dto.ErrorResponse "Attempt not completed"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "COACH_UNAVAILABLE"
// @Router /attempts/{attempt_id}/coaching [get]
func (c *AttemptController) GetCoaching(ctx *gin.Context) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	advice, err := c.coachService.Coach(ctx.Request.Context(), userID, attemptID)
	if err != nil {
		controller.RespondError(ctx, "GetCoaching", err)
		return
	}
	ctx.JSON(http.StatusOK, advice)
}
