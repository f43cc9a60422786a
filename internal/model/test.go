package model

import (
	"time"

	"gorm.io/gorm"
)

// Test is a standardized test family such as ACT or SAT.
type Test struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Code      string         `json:"code" gorm:"not null;uniqueIndex;size:32"` // "ACT", "SAT", "PSAT"
	Name      string         `json:"name" gorm:"not null"`
	Sections  []TestSection  `json:"sections,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TestSection is a named, time-boxed division of a test (e.g. "Math").
type TestSection struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	TestID       uint      `json:"test_id" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"not null;size:32"`
	Name         string    `json:"name" gorm:"not null"`
	OrderNo      int       `json:"order_no" gorm:"not null"`
	TimeLimitSec int       `json:"time_limit_sec"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
