package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AttemptStatusStarted   = "started"
	AttemptStatusCompleted = "completed"
)

const (
	AttemptKindPractice   = "practice"
	AttemptKindDiagnostic = "diagnostic"
	AttemptKindFinal      = "final"
)

// Attempt is one exam-taking session. CompletedAt is written exactly once.
type Attempt struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	UserID        uint             `json:"user_id" gorm:"not null;index"`
	CourseID      uint             `json:"course_id" gorm:"not null;index"`
	Course        *Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	BlueprintID   uint             `json:"blueprint_id" gorm:"not null;index"`
	TestID        *uint            `json:"test_id,omitempty"`
	Kind          string           `json:"kind" gorm:"not null;default:'practice'"`
	Locale        string           `json:"locale" gorm:"not null;size:16"`
	Status        string           `json:"status" gorm:"not null;default:'started'"`
	StartedAt     time.Time        `json:"started_at" gorm:"not null"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	RawScore      *int             `json:"raw_score,omitempty"`
	ScaledScore   *int             `json:"scaled_score,omitempty"`
	ReportedScore *int             `json:"reported_score,omitempty"`
	ScoreMethod   string           `json:"score_method,omitempty" gorm:"size:16"`
	Sections      []AttemptSection `json:"sections,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE;"`
	Items         []AttemptItem    `json:"items,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE;"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (a *Attempt) IsCompleted() bool { return a.CompletedAt != nil }

type AttemptSection struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	AttemptID   uint         `json:"attempt_id" gorm:"not null;index"`
	SectionID   uint         `json:"section_id" gorm:"not null"`
	Section     *TestSection `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	OrderNo     int          `json:"order_no" gorm:"not null"`
	RawScore    *int         `json:"raw_score,omitempty"`
	ScaledScore *int         `json:"scaled_score,omitempty"`
}

// AttemptItem is a snapshot of a question taken when the attempt was created.
type AttemptItem struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AttemptID        uint           `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_item_no"`
	AttemptSectionID *uint          `json:"attempt_section_id,omitempty" gorm:"index"`
	QuestionID       uint           `json:"question_id" gorm:"not null"`
	ItemNo           int            `json:"item_no" gorm:"not null;uniqueIndex:idx_attempt_item_no"`
	Skill            string         `json:"skill"`
	Locale           string         `json:"locale" gorm:"size:16"`
	Stem             string         `json:"stem" gorm:"type:text;not null"`
	Choices          datatypes.JSON `json:"choices"`
	Answer           string         `json:"answer" gorm:"not null"`
	Explanation      string         `json:"explanation,omitempty" gorm:"type:text"`
	Response         *string        `json:"response,omitempty"`
	Correct          *bool          `json:"correct,omitempty"`
}

// AttemptOutcome is the summary row written once an attempt is graded.
type AttemptOutcome struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AttemptID     uint      `json:"attempt_id" gorm:"not null;uniqueIndex"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	CourseID      uint      `json:"course_id" gorm:"not null;index"`
	Kind          string    `json:"kind" gorm:"not null"`
	RawScore      int       `json:"raw_score"`
	ScaledScore   *int      `json:"scaled_score,omitempty"`
	ReportedScore int       `json:"reported_score"`
	CreatedAt     time.Time `json:"created_at"`
}
