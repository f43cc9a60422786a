package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminContentController struct {
	contentService service.AdminContentService
}

func NewAdminContentController(contentService service.AdminContentService) *AdminContentController {
	return &AdminContentController{contentService: contentService}
}

// CreateCourse godoc
// @Summary (Admin) Create a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body dto.CourseCreateDTO true "Course data"
// @Success 201 {object} dto.CourseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/courses [post]
func (c *AdminContentController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateCourse: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	course, err := c.contentService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateCourse", err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to the bank
// @Description The answer must be one of the choice keys. New questions are drafts unless a status is given.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.QuestionCreateDTO true "Question with tags and translations"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /admin/questions [post]
func (c *AdminContentController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	q, err := c.contentService.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateQuestion", err)
		return
	}
	ctx.JSON(http.StatusCreated, q)
}

// ListQuestions godoc
// @Summary (Admin) List questions of a course
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Param status query string false "draft, approved or retired"
// @Success 200 {array} dto.QuestionResponseDTO
// @Router /admin/courses/{course_id}/questions [get]
func (c *AdminContentController) ListQuestions(ctx *gin.Context) {
	courseID, ok := controller.ParseIDParam(ctx, "course_id")
	if !ok {
		return
	}
	questions, err := c.contentService.ListQuestions(ctx.Request.Context(), courseID, ctx.Query("status"))
	if err != nil {
		controller.RespondError(ctx, "Admin ListQuestions", err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// SetQuestionStatus godoc
// @Summary (Admin) Approve, retire or re-draft a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param status body dto.QuestionStatusDTO true "New status"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id}/status [put]
func (c *AdminContentController) SetQuestionStatus(ctx *gin.Context) {
	questionID, ok := controller.ParseIDParam(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionStatusDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	q, err := c.contentService.SetQuestionStatus(ctx.Request.Context(), questionID, req.Status)
	if err != nil {
		controller.RespondError(ctx, "Admin SetQuestionStatus", err)
		return
	}
	ctx.JSON(http.StatusOK, q)
}

// CreateBlueprint godoc
// @Summary (Admin) Create a blueprint
// @Description Version defaults to one past the course's highest. Set activate to make it the course's only active blueprint.
// @Tags Admin - Blueprints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blueprint body dto.BlueprintCreateDTO true "Blueprint with rules"
// @Success 201 {object} dto.BlueprintResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/blueprints [post]
func (c *AdminContentController) CreateBlueprint(ctx *gin.Context) {
	var req dto.BlueprintCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateBlueprint: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	bp, err := c.contentService.CreateBlueprint(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateBlueprint", err)
		return
	}
	ctx.JSON(http.StatusCreated, bp)
}

// ListBlueprints godoc
// @Summary (Admin) List blueprints of a course
// @Tags Admin - Blueprints
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Success 200 {array} dto.BlueprintResponseDTO
// @Router /admin/courses/{course_id}/blueprints [get]
func (c *AdminContentController) ListBlueprints(ctx *gin.Context) {
	courseID, ok := controller.ParseIDParam(ctx, "course_id")
	if !ok {
		return
	}
	bps, err := c.contentService.ListBlueprints(ctx.Request.Context(), courseID)
	if err != nil {
		controller.RespondError(ctx, "Admin ListBlueprints", err)
		return
	}
	ctx.JSON(http.StatusOK, bps)
}

// ActivateBlueprint godoc
// @Summary (Admin) Make a blueprint the active one for its course
// @Tags Admin - Blueprints
// @Produce json
// @Security BearerAuth
// @Param blueprint_id path int true "Blueprint ID"
// @Success 200 {object} dto.BlueprintResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/blueprints/{blueprint_id}/activate [post]
func (c *AdminContentController) ActivateBlueprint(ctx *gin.Context) {
	blueprintID, ok := controller.ParseIDParam(ctx, "blueprint_id")
	if !ok {
		return
	}
	bp, err := c.contentService.ActivateBlueprint(ctx.Request.Context(), blueprintID)
	if err != nil {
		controller.RespondError(ctx, "Admin ActivateBlueprint", err)
		return
	}
	ctx.JSON(http.StatusOK, bp)
}

// ReplaceBlueprintRules godoc
// @Summary (Admin) Replace the rules of an unused blueprint
// @Tags Admin - Blueprints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blueprint_id path int true "Blueprint ID"
// @Param rules body dto.BlueprintRulesReplaceDTO true "New rules"
// @Success 200 {object} dto.BlueprintResponseDTO
// @Failure 400 {object} dto.ErrorResponse "BLUEPRINT_IN_USE or invalid rules"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/blueprints/{blueprint_id}/rules [put]
func (c *AdminContentController) ReplaceBlueprintRules(ctx *gin.Context) {
	blueprintID, ok := controller.ParseIDParam(ctx, "blueprint_id")
	if !ok {
		return
	}
	var req dto.BlueprintRulesReplaceDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	bp, err := c.contentService.ReplaceBlueprintRules(ctx.Request.Context(), blueprintID, req)
	if err != nil {
		controller.RespondError(ctx, "Admin ReplaceBlueprintRules", err)
		return
	}
	ctx.JSON(http.StatusOK, bp)
}

// DeleteBlueprint godoc
// @Summary (Admin) Delete an unused blueprint
// @Tags Admin - Blueprints
// @Security BearerAuth
// @Param blueprint_id path int true "Blueprint ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "BLUEPRINT_IN_USE"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/blueprints/{blueprint_id} [delete]
func (c *AdminContentController) DeleteBlueprint(ctx *gin.Context) {
	blueprintID, ok := controller.ParseIDParam(ctx, "blueprint_id")
	if !ok {
		return
	}
	if err := c.contentService.DeleteBlueprint(ctx.Request.Context(), blueprintID); err != nil {
		controller.RespondError(ctx, "Admin DeleteBlueprint", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
