package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAttemptAlreadyCompleted is returned by Complete when completed_at was already set.
var ErrAttemptAlreadyCompleted = errors.New("attempt already completed")

// AttemptScores carries the aggregate scores written when an attempt completes.
type AttemptScores struct {
	RawScore      int
	ScaledScore   *int
	ReportedScore int
	Method        string
}

type AttemptRepository interface {
	WithTx(tx *gorm.DB) AttemptRepository
	Create(ctx context.Context, attempt *model.Attempt) error
	CreateSections(ctx context.Context, sections []model.AttemptSection) error
	CreateItems(ctx context.Context, items []model.AttemptItem) error
	FindByID(ctx context.Context, id uint) (*model.Attempt, error)
	// FindByIDWithDetails loads sections (with their test sections) and items in item order.
	FindByIDWithDetails(ctx context.Context, id uint) (*model.Attempt, error)
	FindAllByUser(ctx context.Context, userID uint, courseID *uint) ([]model.Attempt, error)
	GradeItem(ctx context.Context, itemID uint, response *string, correct bool) error
	UpdateSectionScores(ctx context.Context, attemptSectionID uint, raw int, scaled *int) error
	// Complete sets completed_at only if it is still NULL.
	Complete(ctx context.Context, attemptID uint, scores AttemptScores, at time.Time) error
	CreateOutcome(ctx context.Context, outcome *model.AttemptOutcome) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) WithTx(tx *gorm.DB) AttemptRepository {
	return &attemptRepository{db: tx}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

func (r *attemptRepository) CreateSections(ctx context.Context, sections []model.AttemptSection) error {
	if len(sections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&sections).Error
}

func (r *attemptRepository) CreateItems(ctx context.Context, items []model.AttemptItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *attemptRepository) FindByID(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.WithContext(ctx).Preload("Course").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Test").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_no ASC")
		}).
		Preload("Sections.Section").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_no ASC")
		}).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByUser(ctx context.Context, userID uint, courseID *uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	err := query.Order("started_at DESC, id DESC").Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) GradeItem(ctx context.Context, itemID uint, response *string, correct bool) error {
	return r.db.WithContext(ctx).Model(&model.AttemptItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{"response": response, "correct": correct}).Error
}

func (r *attemptRepository) UpdateSectionScores(ctx context.Context, attemptSectionID uint, raw int, scaled *int) error {
	return r.db.WithContext(ctx).Model(&model.AttemptSection{}).
		Where("id = ?", attemptSectionID).
		Updates(map[string]interface{}{"raw_score": raw, "scaled_score": scaled}).Error
}

func (r *attemptRepository) Complete(ctx context.Context, attemptID uint, scores AttemptScores, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Updates(map[string]interface{}{
			"status":         model.AttemptStatusCompleted,
			"completed_at":   at,
			"raw_score":      scores.RawScore,
			"scaled_score":   scores.ScaledScore,
			"reported_score": scores.ReportedScore,
			"score_method":   scores.Method,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttemptAlreadyCompleted
	}
	return nil
}

func (r *attemptRepository) CreateOutcome(ctx context.Context, outcome *model.AttemptOutcome) error {
	return r.db.WithContext(ctx).Create(outcome).Error
}
