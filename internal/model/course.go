package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	CourseKindDriverEd = "driver_ed"
	CourseKindTestPrep = "test_prep"
)

type Course struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Title      string         `json:"title" gorm:"not null"`
	Kind       string         `json:"kind" gorm:"not null;default:'driver_ed'"`
	TestID     *uint          `json:"test_id,omitempty" gorm:"index"`
	Test       *Test          `json:"test,omitempty" gorm:"foreignKey:TestID"`
	BaseLocale string         `json:"base_locale" gorm:"not null;default:'en';size:16"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Course) IsTestPrep() bool { return c.Kind == CourseKindTestPrep }
