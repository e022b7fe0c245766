// models/module_progress.go
package models

import "time"

// Progress status values. Mapping on completion is score >= 60 → COMPLETED,
// otherwise PASSED. The naming is inverted relative to intuition but matches
// the product's historical data; do not "fix" without a migration.
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
	ProgressPassed     = "PASSED"
)

// ModuleProgress tracks one learner's state on one module. The composite
// unique index makes (user, module) the natural key; rows are created on
// first interaction and only ever updated afterwards.
type ModuleProgress struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	UserID   string `json:"user_id" gorm:"uniqueIndex:idx_user_module;not null"`
	ModuleID string `json:"module_id" gorm:"uniqueIndex:idx_user_module;not null"`

	Status           string `json:"status" gorm:"default:'NOT_STARTED'"`
	Score            int    `json:"score" gorm:"default:0"` // 0..100
	TimeSpentSeconds int    `json:"time_spent_seconds" gorm:"default:0"`
	Attempts         int    `json:"attempts" gorm:"default:0"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// CompletedStatuses are the statuses that count toward the learner's
// completed-module total.
var CompletedStatuses = []string{ProgressCompleted, ProgressPassed}
