// models/processed_event.go
package models

import "time"

// ProcessedEvent dedupes client-submitted completion events. Inserting the
// event id is the first write of the completion transaction; a conflict
// means the event was already applied and the whole submission is rejected
// before any XP or progress mutation.
type ProcessedEvent struct {
	EventID   string    `gorm:"primaryKey" json:"event_id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	ModuleID  string    `gorm:"not null" json:"module_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
