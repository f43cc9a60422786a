package repository

import (
	"context"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

// PoolFilter selects candidate questions for one blueprint rule. Optional
// fields left nil or empty do not constrain the pool.
//
// Conditions are applied in a fixed order: equality (course, status, skill,
// locale), then difficulty range, then tag overlap (IncludeTags, AnyTags),
// then tag exclusion (ExcludeTags).
type PoolFilter struct {
	CourseID      uint
	Status        string
	Skill         string
	Locale        string
	MinDifficulty *int
	MaxDifficulty *int
	IncludeTags   []string
	AnyTags       []string
	ExcludeTags   []string
}

const tagOverlapClause = "EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = questions.id AND qt.tag IN ?)"

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByCourse(ctx context.Context, courseID uint, status string) ([]model.Question, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	// FindPool returns every question matching the filter, ordered by id. There is no pagination.
	FindPool(ctx context.Context, filter PoolFilter) ([]model.Question, error)
	// TranslationsFor returns translations for the given questions keyed by question id.
	TranslationsFor(ctx context.Context, questionIDs []uint, locale string) (map[uint]model.QuestionTranslation, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	// Tags and translations are created with the question.
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).Preload("Tags").Preload("Translations").First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByCourse(ctx context.Context, courseID uint, status string) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.WithContext(ctx).Preload("Tags").Where("course_id = ?", courseID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *questionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) FindPool(ctx context.Context, filter PoolFilter) ([]model.Question, error) {
	query := r.db.WithContext(ctx).Model(&model.Question{})

	// equality
	query = query.Where("course_id = ?", filter.CourseID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Skill != "" {
		query = query.Where("skill = ?", filter.Skill)
	}
	if filter.Locale != "" {
		query = query.Where("locale = ?", filter.Locale)
	}

	// range
	if filter.MinDifficulty != nil {
		query = query.Where("difficulty >= ?", *filter.MinDifficulty)
	}
	if filter.MaxDifficulty != nil {
		query = query.Where("difficulty <= ?", *filter.MaxDifficulty)
	}

	// tag overlap
	if len(filter.IncludeTags) > 0 {
		query = query.Where(tagOverlapClause, filter.IncludeTags)
	}
	if len(filter.AnyTags) > 0 {
		query = query.Where(tagOverlapClause, filter.AnyTags)
	}

	// tag exclusion
	if len(filter.ExcludeTags) > 0 {
		query = query.Where("NOT "+tagOverlapClause, filter.ExcludeTags)
	}

	var questions []model.Question
	err := query.Order("questions.id ASC").Find(&questions).Error
	return questions, err
}

func (r *questionRepository) TranslationsFor(ctx context.Context, questionIDs []uint, locale string) (map[uint]model.QuestionTranslation, error) {
	out := make(map[uint]model.QuestionTranslation)
	if len(questionIDs) == 0 || locale == "" {
		return out, nil
	}
	var rows []model.QuestionTranslation
	err := r.db.WithContext(ctx).
		Where("question_id IN ? AND locale = ?", questionIDs, locale).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.QuestionID] = row
	}
	return out, nil
}
