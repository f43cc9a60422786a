package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/service"
)

type CourseController struct {
	courseService service.CourseService
}

func NewCourseController(cs service.CourseService) *CourseController {
	return &CourseController{courseService: cs}
}

// ListCourses godoc
// @Summary List courses
// @Tags User - Courses
// @Produce json
// @Success 200 {array} dto.CourseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "ListCourses", err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get a course
// @Tags User - Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CourseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{course_id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, ok := controller.ParseIDParam(ctx, "course_id")
	if !ok {
		return
	}
	course, err := c.courseService.GetCourse(ctx.Request.Context(), courseID)
	if err != nil {
		controller.RespondError(ctx, "GetCourse", err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}
