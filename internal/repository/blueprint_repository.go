package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type BlueprintRepository interface {
	WithTx(tx *gorm.DB) BlueprintRepository
	Create(ctx context.Context, blueprint *model.Blueprint) error
	FindByID(ctx context.Context, id uint) (*model.Blueprint, error)
	// FindActiveByCourse returns the active blueprint with its rules in position order.
	FindActiveByCourse(ctx context.Context, courseID uint) (*model.Blueprint, error)
	FindAllByCourse(ctx context.Context, courseID uint) ([]model.Blueprint, error)
	// Activate deactivates every other blueprint of the course. Run it inside a transaction.
	Activate(ctx context.Context, courseID, blueprintID uint) error
	// ReplaceRules deletes the blueprint's rules and inserts rules in their place.
	ReplaceRules(ctx context.Context, blueprintID uint, rules []model.BlueprintRule) error
	CountAttempts(ctx context.Context, blueprintID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type blueprintRepository struct {
	db *gorm.DB
}

func NewBlueprintRepository(db *gorm.DB) BlueprintRepository {
	return &blueprintRepository{db: db}
}

func (r *blueprintRepository) WithTx(tx *gorm.DB) BlueprintRepository {
	return &blueprintRepository{db: tx}
}

func orderedRules(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func (r *blueprintRepository) Create(ctx context.Context, blueprint *model.Blueprint) error {
	return r.db.WithContext(ctx).Create(blueprint).Error
}

func (r *blueprintRepository) FindByID(ctx context.Context, id uint) (*model.Blueprint, error) {
	var bp model.Blueprint
	if err := r.db.WithContext(ctx).Preload("Rules", orderedRules).First(&bp, id).Error; err != nil {
		return nil, err
	}
	return &bp, nil
}

func (r *blueprintRepository) FindActiveByCourse(ctx context.Context, courseID uint) (*model.Blueprint, error) {
	var bp model.Blueprint
	err := r.db.WithContext(ctx).
		Preload("Rules", orderedRules).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Order("version DESC").
		First(&bp).Error
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

func (r *blueprintRepository) FindAllByCourse(ctx context.Context, courseID uint) ([]model.Blueprint, error) {
	var bps []model.Blueprint
	err := r.db.WithContext(ctx).
		Preload("Rules", orderedRules).
		Where("course_id = ?", courseID).
		Order("version DESC, id DESC").
		Find(&bps).Error
	return bps, err
}

func (r *blueprintRepository) Activate(ctx context.Context, courseID, blueprintID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Blueprint{}).
		Where("course_id = ? AND id <> ?", courseID, blueprintID).
		Update("is_active", false).Error; err != nil {
		return err
	}
	res := db.Model(&model.Blueprint{}).
		Where("course_id = ? AND id = ?", courseID, blueprintID).
		Update("is_active", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *blueprintRepository) ReplaceRules(ctx context.Context, blueprintID uint, rules []model.BlueprintRule) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("blueprint_id = ?", blueprintID).Delete(&model.BlueprintRule{}).Error; err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}
	for i := range rules {
		rules[i].ID = 0
		rules[i].BlueprintID = blueprintID
	}
	return db.Create(&rules).Error
}

func (r *blueprintRepository) CountAttempts(ctx context.Context, blueprintID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Attempt{}).Where("blueprint_id = ?", blueprintID).Count(&n).Error
	return n, err
}

func (r *blueprintRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("blueprint_id = ?", id).Delete(&model.BlueprintRule{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Blueprint{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
