package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex;size:255"`
	Name         string         `json:"name" gorm:"not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         string         `json:"role" gorm:"not null;default:'student'"`
	Locale       string         `json:"locale,omitempty" gorm:"size:16"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
