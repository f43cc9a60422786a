package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(ctx context.Context, test *model.Test) error
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	FindAll(ctx context.Context) ([]model.Test, error)
	// FindSections returns the test's sections in ascending order_no.
	FindSections(ctx context.Context, testID uint) ([]model.TestSection, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	// GORM creates the associated sections along with the test.
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_no ASC")
		}).
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAll(ctx context.Context) ([]model.Test, error) {
	var tests []model.Test
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_no ASC")
		}).
		Order("code ASC").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) FindSections(ctx context.Context, testID uint) ([]model.TestSection, error) {
	var sections []model.TestSection
	err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("order_no ASC, id ASC").
		Find(&sections).Error
	return sections, err
}
