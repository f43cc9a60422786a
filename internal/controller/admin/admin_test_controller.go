package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminTestController struct {
	adminTestService service.AdminTestService
}

func NewAdminTestController(adminTestService service.AdminTestService) *AdminTestController {
	return &AdminTestController{adminTestService: adminTestService}
}

// CreateTest godoc
// @Summary (Admin) Create a test with its sections
// @Description Section codes and order numbers must be unique within the test.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_data body dto.TestCreateDTO true "Test and sections"
// @Success 201 {object} dto.TestResponseDTO "Test created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateTest: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	testResp, err := c.adminTestService.CreateTest(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateTest", err)
		return
	}
	ctx.JSON(http.StatusCreated, testResp)
}

// ListTests godoc
// @Summary (Admin) List tests with sections
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestResponseDTO
// @Router /admin/tests [get]
func (c *AdminTestController) ListTests(ctx *gin.Context) {
	tests, err := c.adminTestService.ListTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "Admin ListTests", err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// ReplaceScoreScale godoc
// @Summary (Admin) Replace a raw-to-scaled score table
// @Description Omit section_id to replace the composite table of the test.
// @Tags Admin - Score Scales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param scale body dto.ScoreScaleReplaceDTO true "Rows of the table"
// @Success 200 {array} dto.ScoreScaleResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id}/score-scales [put]
func (c *AdminTestController) ReplaceScoreScale(ctx *gin.Context) {
	testID, ok := controller.ParseIDParam(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.ScoreScaleReplaceDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	rows, err := c.adminTestService.ReplaceScoreScale(ctx.Request.Context(), testID, req)
	if err != nil {
		controller.RespondError(ctx, "Admin ReplaceScoreScale", err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

// ListScoreScales godoc
// @Summary (Admin) List every score table row of a test
// @Tags Admin - Score Scales
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.ScoreScaleResponseDTO
// @Router /admin/tests/{test_id}/score-scales [get]
func (c *AdminTestController) ListScoreScales(ctx *gin.Context) {
	testID, ok := controller.ParseIDParam(ctx, "test_id")
	if !ok {
		return
	}
	rows, err := c.adminTestService.ListScoreScales(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, "Admin ListScoreScales", err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}
