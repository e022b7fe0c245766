package models

import (
	"time"
)

// Badge: static catalog row (seeded once on boot)
type Badge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"` // e.g., "first-steps"
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	Rarity      string    `gorm:"type:varchar(16);default:'common'" json:"rarity"` // common, rare, epic, legendary
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. The composite unique index makes the pair a
// true set — awards go through an insert-if-absent so duplicates are
// impossible even under concurrent completion events.
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeID   string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

// PerfectScoreBadgeSlug is looked up when a learner scores 100.
const PerfectScoreBadgeSlug = "flawless"

// BadgeCatalog is the predefined badge set
var BadgeCatalog = []Badge{
	{
		Slug:        "first-steps",
		Name:        "First Steps",
		Description: "Completed your first module",
		Rarity:      "common",
	},
	{
		Slug:        "go-basics-graduate",
		Name:        "Go Basics Graduate",
		Description: "Finished the Go Basics module",
		Rarity:      "common",
	},
	{
		Slug:        "sql-foundations-graduate",
		Name:        "SQL Foundations Graduate",
		Description: "Finished the SQL Foundations module",
		Rarity:      "common",
	},
	{
		Slug:        PerfectScoreBadgeSlug,
		Name:        "Flawless",
		Description: "Scored 100 on a module",
		Rarity:      "rare",
	},
}

// ModuleBadges maps a module slug to the badge granted for completing it.
var ModuleBadges = map[string]string{
	"go-basics":       "go-basics-graduate",
	"sql-foundations": "sql-foundations-graduate",
}
