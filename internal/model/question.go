package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionStatusDraft    = "draft"
	QuestionStatusApproved = "approved"
	QuestionStatusRetired  = "retired"
)

type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type Question struct {
	ID           uint                  `gorm:"primarykey" json:"id"`
	CourseID     uint                  `json:"course_id" gorm:"not null;index:idx_question_pool,priority:1"`
	Skill        string                `json:"skill" gorm:"not null;index:idx_question_pool,priority:3"`
	Difficulty   int                   `json:"difficulty" gorm:"not null;default:0"`
	Status       string                `json:"status" gorm:"not null;default:'draft';index:idx_question_pool,priority:2"`
	Locale       string                `json:"locale" gorm:"not null;default:'en';size:16"`
	Stem         string                `json:"stem" gorm:"type:text;not null"`
	Choices      datatypes.JSON        `json:"choices"`
	Answer       string                `json:"answer" gorm:"not null"`
	Explanation  string                `json:"explanation,omitempty" gorm:"type:text"`
	Tags         []QuestionTag         `json:"tags,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
	Translations []QuestionTranslation `json:"translations,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	DeletedAt    gorm.DeletedAt        `gorm:"index" json:"-"`
}

// TagNames returns the question's tags in stored order.
func (q *Question) TagNames() []string {
	out := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		out = append(out, t.Tag)
	}
	return out
}

type QuestionTag struct {
	ID         uint   `gorm:"primarykey" json:"-"`
	QuestionID uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_question_tag"`
	Tag        string `json:"tag" gorm:"not null;size:64;uniqueIndex:idx_question_tag;index"`
}

// QuestionTranslation overrides the learner-facing text of a question for one locale.
// An empty Answer keeps the base answer key.
type QuestionTranslation struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	QuestionID  uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_question_locale"`
	Locale      string         `json:"locale" gorm:"not null;size:16;uniqueIndex:idx_question_locale"`
	Stem        string         `json:"stem" gorm:"type:text;not null"`
	Choices     datatypes.JSON `json:"choices"`
	Answer      string         `json:"answer,omitempty"`
	Explanation string         `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// EncodeChoices marshals choices for a datatypes.JSON column.
func EncodeChoices(choices []Choice) (datatypes.JSON, error) {
	if choices == nil {
		choices = []Choice{}
	}
	raw, err := json.Marshal(choices)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeChoices is the inverse of EncodeChoices. Empty input yields no choices.
func DecodeChoices(raw datatypes.JSON) ([]Choice, error) {
	if len(raw) == 0 {
		return []Choice{}, nil
	}
	var out []Choice
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
