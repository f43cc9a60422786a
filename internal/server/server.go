package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/controller"
	adminctrl "github.com/lshigami/examprep/internal/controller/admin"
	userctrl "github.com/lshigami/examprep/internal/controller/user"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Controllers groups every handler set mounted on the router.
type Controllers struct {
	Auth         *userctrl.AuthController
	Attempts     *userctrl.AttemptController
	Courses      *userctrl.CourseController
	AdminTests   *adminctrl.AdminTestController
	AdminContent *adminctrl.AdminContentController
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	switch cfg.Server.GinMode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.GinMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// RegisterRoutes mounts the public, authenticated, and admin API groups under /api/v1.
func RegisterRoutes(router *gin.Engine, ctrls Controllers, auth service.AuthService, locales *middleware.LocaleResolver) {
	api := router.Group("/api/v1")
	api.GET("/healthz", controller.Health)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ctrls.Auth.Register)
		authGroup.POST("/login", ctrls.Auth.Login)
		authGroup.GET("/me", middleware.RequireAuth(auth), ctrls.Auth.Me)
	}

	api.GET("/courses", ctrls.Courses.ListCourses)
	api.GET("/courses/:course_id", ctrls.Courses.GetCourse)

	attempts := api.Group("/attempts", middleware.RequireAuth(auth), locales.Middleware())
	{
		attempts.POST("", ctrls.Attempts.CreateAttempt)
		attempts.GET("", ctrls.Attempts.ListMyAttempts)
		attempts.GET("/:attempt_id", ctrls.Attempts.GetAttempt)
		attempts.POST("/:attempt_id/submit", ctrls.Attempts.SubmitAttempt)
		attempts.GET("/:attempt_id/coaching", ctrls.Attempts.GetCoaching)
	}

	admin := api.Group("/admin", middleware.RequireAuth(auth), middleware.RequireAdmin())
	{
		admin.POST("/tests", ctrls.AdminTests.CreateTest)
		admin.GET("/tests", ctrls.AdminTests.ListTests)
		admin.PUT("/tests/:test_id/score-scales", ctrls.AdminTests.ReplaceScoreScale)
		admin.GET("/tests/:test_id/score-scales", ctrls.AdminTests.ListScoreScales)

		admin.POST("/courses", ctrls.AdminContent.CreateCourse)
		admin.GET("/courses/:course_id/questions", ctrls.AdminContent.ListQuestions)
		admin.GET("/courses/:course_id/blueprints", ctrls.AdminContent.ListBlueprints)

		admin.POST("/questions", ctrls.AdminContent.CreateQuestion)
		admin.PUT("/questions/:question_id/status", ctrls.AdminContent.SetQuestionStatus)

		admin.POST("/blueprints", ctrls.AdminContent.CreateBlueprint)
		admin.POST("/blueprints/:blueprint_id/activate", ctrls.AdminContent.ActivateBlueprint)
		admin.PUT("/blueprints/:blueprint_id/rules", ctrls.AdminContent.ReplaceBlueprintRules)
		admin.DELETE("/blueprints/:blueprint_id", ctrls.AdminContent.DeleteBlueprint)
	}
}
