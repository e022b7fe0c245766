// models/learning_module.go
package models

import "time"

const (
	ModuleStatusDraft     = "draft"
	ModuleStatusScheduled = "scheduled"
	ModuleStatusPublished = "published"
)

// LearningModule is a publishable unit of course content. Completing it
// grants a flat XPReward regardless of score.
type LearningModule struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Category    string `json:"category"`

	XPReward int64 `json:"xp_reward" gorm:"default:0"`

	// 🖼️ Media (badge-style icon or cover image, served from R2/CDN)
	AssetURL string `json:"asset_url,omitempty"`

	// 🎛️ Publishing state
	Status    string     `json:"status" gorm:"default:'draft'"` // draft | scheduled | published
	PublishAt *time.Time `json:"publish_at"`                    // only used if scheduled

	Timestamps
}
