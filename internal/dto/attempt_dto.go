package dto

import (
	"time"

	"github.com/lshigami/examprep/internal/model"
)

// AttemptSectionDTO describes one section of an attempt as delivered to the learner.
type AttemptSectionDTO struct {
	AttemptSectionID uint   `json:"attemptSectionId"`
	SectionID        uint   `json:"sectionId"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	OrderNo          int    `json:"orderNo"`
	TimeLimitSec     int    `json:"timeLimitSec"`
	QuestionCount    int    `json:"questionCount"`
}

// AttemptCreatedDTO is returned by attempt creation.
type AttemptCreatedDTO struct {
	AttemptID      uint                `json:"attemptId"`
	Sections       []AttemptSectionDTO `json:"sections"`
	TotalQuestions int                 `json:"totalQuestions"`
}

type SectionScoreDTO struct {
	AttemptSectionID uint   `json:"attemptSectionId"`
	SectionID        uint   `json:"sectionId"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	RawScore         int    `json:"rawScore"`
	ScaledScore      *int   `json:"scaledScore"`
	TotalItems       int    `json:"totalItems"`
}

// OverallScoreDTO is the attempt-wide result. Method tells how ScaledScore was
// obtained: "table", "mean", "sum", or "raw" when no scaled score exists.
type OverallScoreDTO struct {
	RawScore      int    `json:"rawScore"`
	TotalItems    int    `json:"totalItems"`
	ScaledScore   *int   `json:"scaledScore"`
	ReportedScore int    `json:"reportedScore"`
	Method        string `json:"method"`
}

type ScoreReportDTO struct {
	Sections    []SectionScoreDTO `json:"sections"`
	Overall     OverallScoreDTO   `json:"overall"`
	TestCode    string            `json:"testCode"`
	CompletedAt time.Time         `json:"completedAt"`
}

// SubmitAttemptResultDTO is returned by attempt submission.
type SubmitAttemptResultDTO struct {
	AttemptID   uint           `json:"attemptId"`
	ScoreReport ScoreReportDTO `json:"scoreReport"`
}

// AttemptItemDTO hides Answer and Explanation until the attempt is completed.
type AttemptItemDTO struct {
	ItemNo           int            `json:"itemNo"`
	AttemptSectionID *uint          `json:"attemptSectionId,omitempty"`
	Skill            string         `json:"skill"`
	Stem             string         `json:"stem"`
	Choices          []model.Choice `json:"choices"`
	Response         *string        `json:"response,omitempty"`
	Correct          *bool          `json:"correct,omitempty"`
	Answer           string         `json:"answer,omitempty"`
	Explanation      string         `json:"explanation,omitempty"`
}

type AttemptDetailDTO struct {
	ID          uint                `json:"id"`
	CourseID    uint                `json:"courseId"`
	Kind        string              `json:"kind"`
	Status      string              `json:"status"`
	Locale      string              `json:"locale"`
	StartedAt   time.Time           `json:"startedAt"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	Sections    []AttemptSectionDTO `json:"sections"`
	Items       []AttemptItemDTO    `json:"items"`
	ScoreReport *ScoreReportDTO     `json:"scoreReport,omitempty"`
}

type AttemptSummaryDTO struct {
	ID            uint       `json:"id"`
	CourseID      uint       `json:"courseId"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	RawScore      *int       `json:"rawScore,omitempty"`
	ScaledScore   *int       `json:"scaledScore,omitempty"`
	ReportedScore *int       `json:"reportedScore,omitempty"`
}

type CoachingDTO struct {
	AttemptID   uint   `json:"attemptId"`
	MissedItems int    `json:"missedItems"`
	Advice      string `json:"advice"`
}
