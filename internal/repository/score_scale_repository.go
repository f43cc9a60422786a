package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type ScoreScaleRepository interface {
	WithTx(tx *gorm.DB) ScoreScaleRepository
	// Lookup returns the scaled score for a raw score, or nil when the table has no row.
	// A nil sectionID looks up the composite table.
	Lookup(ctx context.Context, testID uint, sectionID *uint, raw int) (*int, error)
	// Replace swaps the whole table for (test, section). Run it inside a transaction.
	Replace(ctx context.Context, testID uint, sectionID *uint, rows []model.ScoreScale) error
	FindByTest(ctx context.Context, testID uint) ([]model.ScoreScale, error)
}

type scoreScaleRepository struct {
	db *gorm.DB
}

func NewScoreScaleRepository(db *gorm.DB) ScoreScaleRepository {
	return &scoreScaleRepository{db: db}
}

func (r *scoreScaleRepository) WithTx(tx *gorm.DB) ScoreScaleRepository {
	return &scoreScaleRepository{db: tx}
}

func scopeSection(db *gorm.DB, testID uint, sectionID *uint) *gorm.DB {
	db = db.Where("test_id = ?", testID)
	if sectionID == nil {
		return db.Where("section_id IS NULL")
	}
	return db.Where("section_id = ?", *sectionID)
}

func (r *scoreScaleRepository) Lookup(ctx context.Context, testID uint, sectionID *uint, raw int) (*int, error) {
	var rows []model.ScoreScale
	err := scopeSection(r.db.WithContext(ctx), testID, sectionID).
		Where("raw_score = ?", raw).
		Order("id ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	scaled := rows[0].ScaledScore
	return &scaled, nil
}

func (r *scoreScaleRepository) Replace(ctx context.Context, testID uint, sectionID *uint, rows []model.ScoreScale) error {
	db := r.db.WithContext(ctx)
	if err := scopeSection(db, testID, sectionID).Delete(&model.ScoreScale{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].TestID = testID
		rows[i].SectionID = sectionID
	}
	return db.CreateInBatches(rows, 200).Error
}

func (r *scoreScaleRepository) FindByTest(ctx context.Context, testID uint) ([]model.ScoreScale, error) {
	var rows []model.ScoreScale
	err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("section_id ASC, raw_score ASC").
		Find(&rows).Error
	return rows, err
}
