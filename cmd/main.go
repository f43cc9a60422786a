package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/database"
	_ "github.com/lshigami/examprep/docs" // Swagger docs
	adminctrl "github.com/lshigami/examprep/internal/controller/admin"
	userctrl "github.com/lshigami/examprep/internal/controller/user"
	"github.com/lshigami/examprep/internal/logger"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/server"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Prep API
// @version 1.0
// @description Sectioned practice exams (ACT, SAT, PSAT): blueprint-driven attempt assembly, grading and score conversion.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			server.NewGinEngine,
			middleware.NewLocaleResolver,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTestRepository,
			repository.NewCourseRepository,
			repository.NewQuestionRepository,
			repository.NewBlueprintRepository,
			repository.NewAttemptRepository,
			repository.NewScoreScaleRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewSampler,
			func(questionRepo repository.QuestionRepository, sampler *service.Sampler) *service.Assembler {
				return service.NewAssembler(questionRepo, sampler)
			},
			service.NewScoreConverterService,
			service.NewAttemptService,
			service.NewSubmissionService,
			service.NewAuthService,
			service.NewCourseService,
			service.NewAdminTestService,
			service.NewAdminContentService,
			service.NewGeminiLLMService,
			service.NewStudyCoachService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewAttemptController,
			userctrl.NewCourseController,
			adminctrl.NewAdminTestController,
			adminctrl.NewAdminContentController,
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func ConfigureLogger(cfg *config.Config) {
	logger.Configure(cfg.Log.Level, cfg.Log.Pretty)
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// RegisterRoutesAndStartServer mounts the API and ties the HTTP server to the fx lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authSvc service.AuthService,
	locales *middleware.LocaleResolver,
	authCtrl *userctrl.AuthController,
	attemptCtrl *userctrl.AttemptController,
	courseCtrl *userctrl.CourseController,
	adminTestCtrl *adminctrl.AdminTestController,
	adminContentCtrl *adminctrl.AdminContentController,
) {
	server.RegisterRoutes(router, server.Controllers{
		Auth:         authCtrl,
		Attempts:     attemptCtrl,
		Courses:      courseCtrl,
		AdminTests:   adminTestCtrl,
		AdminContent: adminContentCtrl,
	}, authSvc, locales)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam Prep API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
