package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error code to its HTTP status.
func StatusFor(code service.ErrorCode) int {
	switch code {
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeUnauthorized:
		return http.StatusForbidden
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeAlreadyCompleted, service.CodeInvalidCourseType, service.CodeNoBlueprint,
		service.CodeValidation, service.CodeBlueprintInUse:
		return http.StatusBadRequest
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeCoachUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the {error, code} body for err. Server-side failures are
// logged with their cause and reported with a generic message.
func RespondError(ctx *gin.Context, op string, err error) {
	code := service.CodeOf(err)
	status := StatusFor(code)

	message := "internal server error"
	var se *service.Error
	if errors.As(err, &se) && se.Message != "" {
		message = se.Message
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("code", string(code)).
			Str("request_id", ctx.GetString(middleware.ContextRequestID)).Msg("Request failed")
	} else {
		log.Warn().Err(err).Str("op", op).Str("code", string(code)).Msg("Request rejected")
	}
	ctx.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message, Code: string(code)})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(ctx *gin.Context, message string, err error) {
	resp := dto.ErrorResponse{Error: message, Code: string(service.CodeValidation)}
	if err != nil {
		resp.Details = []string{err.Error()}
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || val == 0 {
		BadRequest(ctx, "invalid "+name, err)
		return 0, false
	}
	return uint(val), true
}

// ParseOptionalIDQuery reads an optional positive integer query parameter.
func ParseOptionalIDQuery(ctx *gin.Context, name string) (*uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || val == 0 {
		BadRequest(ctx, "invalid "+name, err)
		return nil, false
	}
	id := uint(val)
	return &id, true
}

// CurrentUserID returns the authenticated caller or aborts with 401.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "authentication required",
			Code:  string(service.CodeUnauthenticated),
		})
		return 0, false
	}
	return id, true
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
