package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the learner account tracked by the progression engine.
// XP is monotonic non-decreasing; Level is always derived from XP and the
// two are never written independently (see services.LevelOf).
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `json:"display_name"`

	// Core progression
	XP     int64 `json:"xp" gorm:"default:0"`
	Level  int   `json:"level" gorm:"default:1"`
	Streak int   `json:"streak" gorm:"default:0"` // consecutive login days

	// Set to midnight of the last successful login day.
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
