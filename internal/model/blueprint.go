package model

import (
	"time"

	"gorm.io/gorm"
)

// Blueprint is a named, versioned rule set describing how one exam is composed.
type Blueprint struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CourseID  uint            `json:"course_id" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Version   int             `json:"version" gorm:"not null;default:1"`
	IsActive  bool            `json:"is_active" gorm:"not null;default:false;index"`
	Rules     []BlueprintRule `json:"rules,omitempty" gorm:"foreignKey:BlueprintID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BlueprintRule asks for Count questions of one skill. Nil bounds and empty tag
// lists do not constrain the pool.
type BlueprintRule struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	BlueprintID   uint      `json:"blueprint_id" gorm:"not null;index"`
	Position      int       `json:"position" gorm:"not null"`
	SectionID     *uint     `json:"section_id,omitempty" gorm:"index"`
	Skill         string    `json:"skill" gorm:"not null"`
	Count         int       `json:"count" gorm:"not null"`
	MinDifficulty *int      `json:"min_difficulty,omitempty"`
	MaxDifficulty *int      `json:"max_difficulty,omitempty"`
	IncludeTags   []string  `json:"include_tags,omitempty" gorm:"serializer:json"`
	ExcludeTags   []string  `json:"exclude_tags,omitempty" gorm:"serializer:json"`
	AnyTags       []string  `json:"any_tags,omitempty" gorm:"serializer:json"`
	CreatedAt     time.Time `json:"created_at"`
}
