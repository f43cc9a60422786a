package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/model"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the PostgreSQL connection pool and closes it when the fx app stops.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode,
	)

	logLevel := logger.Warn
	if cfg.Server.GinMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing database connection pool")
			return sqlDB.Close()
		},
	})

	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Database connection configured")
	return db, nil
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.TestSection{},
		&model.Course{},
		&model.Question{},
		&model.QuestionTag{},
		&model.QuestionTranslation{},
		&model.Blueprint{},
		&model.BlueprintRule{},
		&model.Attempt{},
		&model.AttemptSection{},
		&model.AttemptItem{},
		&model.ScoreScale{},
		&model.AttemptOutcome{},
	)
}
