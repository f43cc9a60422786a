package dto

import (
	"time"

	"github.com/lshigami/examprep/internal/model"
)

// --- requests ---

type SectionCreateDTO struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	OrderNo      int    `json:"order_no" binding:"required,min=1"`
	TimeLimitSec int    `json:"time_limit_sec" binding:"min=0"`
}

type TestCreateDTO struct {
	Code     string             `json:"code" binding:"required"`
	Name     string             `json:"name" binding:"required"`
	Sections []SectionCreateDTO `json:"sections" binding:"omitempty,dive"`
}

type CourseCreateDTO struct {
	Title      string `json:"title" binding:"required"`
	Kind       string `json:"kind" binding:"required,oneof=driver_ed test_prep"`
	TestID     *uint  `json:"test_id"`
	BaseLocale string `json:"base_locale"`
}

type TranslationCreateDTO struct {
	Locale      string         `json:"locale" binding:"required"`
	Stem        string         `json:"stem" binding:"required"`
	Choices     []model.Choice `json:"choices"`
	Answer      string         `json:"answer"`
	Explanation string         `json:"explanation"`
}

type QuestionCreateDTO struct {
	CourseID     uint                   `json:"course_id" binding:"required"`
	Skill        string                 `json:"skill" binding:"required"`
	Difficulty   int                    `json:"difficulty" binding:"min=0"`
	Status       string                 `json:"status" binding:"omitempty,oneof=draft approved retired"`
	Locale       string                 `json:"locale"`
	Stem         string                 `json:"stem" binding:"required"`
	Choices      []model.Choice         `json:"choices" binding:"required,min=2"`
	Answer       string                 `json:"answer" binding:"required"`
	Explanation  string                 `json:"explanation"`
	Tags         []string               `json:"tags"`
	Translations []TranslationCreateDTO `json:"translations" binding:"omitempty,dive"`
}

type QuestionStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=draft approved retired"`
}

type RuleCreateDTO struct {
	Position      int      `json:"position"`
	SectionID     *uint    `json:"section_id"`
	Skill         string   `json:"skill" binding:"required"`
	Count         int      `json:"count" binding:"required,min=1"`
	MinDifficulty *int     `json:"min_difficulty"`
	MaxDifficulty *int     `json:"max_difficulty"`
	IncludeTags   []string `json:"include_tags"`
	ExcludeTags   []string `json:"exclude_tags"`
	AnyTags       []string `json:"any_tags"`
}

type BlueprintCreateDTO struct {
	CourseID uint            `json:"course_id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Version  int             `json:"version" binding:"min=0"`
	Rules    []RuleCreateDTO `json:"rules" binding:"required,min=1,dive"`
	Activate bool            `json:"activate"`
}

type BlueprintRulesReplaceDTO struct {
	Rules []RuleCreateDTO `json:"rules" binding:"required,min=1,dive"`
}

type ScoreScaleRowDTO struct {
	RawScore    int `json:"raw_score" binding:"min=0"`
	ScaledScore int `json:"scaled_score"`
}

// ScoreScaleReplaceDTO replaces one table. A nil SectionID targets the composite table.
type ScoreScaleReplaceDTO struct {
	SectionID *uint              `json:"section_id"`
	Rows      []ScoreScaleRowDTO `json:"rows" binding:"required,dive"`
}

// --- responses ---

type SectionResponseDTO struct {
	ID           uint   `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	OrderNo      int    `json:"order_no"`
	TimeLimitSec int    `json:"time_limit_sec"`
}

type TestResponseDTO struct {
	ID        uint                 `json:"id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	Sections  []SectionResponseDTO `json:"sections"`
	CreatedAt time.Time            `json:"created_at"`
}

type QuestionResponseDTO struct {
	ID          uint           `json:"id"`
	CourseID    uint           `json:"course_id"`
	Skill       string         `json:"skill"`
	Difficulty  int            `json:"difficulty"`
	Status      string         `json:"status"`
	Locale      string         `json:"locale"`
	Stem        string         `json:"stem"`
	Choices     []model.Choice `json:"choices"`
	Answer      string         `json:"answer"`
	Explanation string         `json:"explanation,omitempty"`
	Tags        []string       `json:"tags"`
	Locales     []string       `json:"translated_locales,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type RuleResponseDTO struct {
	ID            uint     `json:"id"`
	Position      int      `json:"position"`
	SectionID     *uint    `json:"section_id,omitempty"`
	Skill         string   `json:"skill"`
	Count         int      `json:"count"`
	MinDifficulty *int     `json:"min_difficulty,omitempty"`
	MaxDifficulty *int     `json:"max_difficulty,omitempty"`
	IncludeTags   []string `json:"include_tags,omitempty"`
	ExcludeTags   []string `json:"exclude_tags,omitempty"`
	AnyTags       []string `json:"any_tags,omitempty"`
}

type BlueprintResponseDTO struct {
	ID        uint              `json:"id"`
	CourseID  uint              `json:"course_id"`
	Name      string            `json:"name"`
	Version   int               `json:"version"`
	IsActive  bool              `json:"is_active"`
	Rules     []RuleResponseDTO `json:"rules"`
	CreatedAt time.Time         `json:"created_at"`
}

type ScoreScaleResponseDTO struct {
	SectionID   *uint `json:"section_id,omitempty"`
	RawScore    int   `json:"raw_score"`
	ScaledScore int   `json:"scaled_score"`
}
