package models

import (
	"fmt"
	"time"
)

// Requirement kinds persisted in achievements.requirement_type.
const (
	RequirementModuleScore          = "module_score"
	RequirementModulesCompleted     = "modules_completed"
	RequirementModuleCompletionTime = "module_completion_time"
)

// Requirement is the decoded achievement rule. Exactly three variants
// exist; evaluation type-switches over them with no default case so a new
// variant cannot be added without a conscious decision at every site.
type Requirement interface {
	isRequirement()
}

// ModuleScore: completed when a single completion scores at least Threshold.
type ModuleScore struct {
	Threshold int
}

// ModulesCompleted: completed when the learner's completed-module total
// reaches Count; progress accrues proportionally.
type ModulesCompleted struct {
	Count int
}

// ModuleCompletionTime: completed when a module is finished within MaxSeconds.
type ModuleCompletionTime struct {
	MaxSeconds int
}

func (ModuleScore) isRequirement()          {}
func (ModulesCompleted) isRequirement()     {}
func (ModuleCompletionTime) isRequirement() {}

// Achievement: static catalog row with a typed completion requirement and a
// one-time XP reward.
type Achievement struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	RequirementType  string `gorm:"not null" json:"requirement_type"`
	RequirementValue int    `gorm:"not null" json:"requirement_value"`

	XPReward  int64     `json:"xp_reward" gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Requirement decodes the stored (type, value) pair into a tagged variant.
func (a *Achievement) Requirement() (Requirement, error) {
	switch a.RequirementType {
	case RequirementModuleScore:
		return ModuleScore{Threshold: a.RequirementValue}, nil
	case RequirementModulesCompleted:
		return ModulesCompleted{Count: a.RequirementValue}, nil
	case RequirementModuleCompletionTime:
		return ModuleCompletionTime{MaxSeconds: a.RequirementValue}, nil
	}
	return nil, fmt.Errorf("achievement %s: unknown requirement type %q", a.Slug, a.RequirementType)
}

// UserAchievement tracks one learner's progress toward one achievement.
// Progress is clamped to 0..100 and never regresses; Completed flips
// false→true at most once and the XP reward is granted on that transition
// only.
type UserAchievement struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`

	Progress    int        `json:"progress" gorm:"default:0"` // 0..100
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// AchievementCatalog is the predefined achievement set
var AchievementCatalog = []Achievement{
	{
		Slug:             "high-scorer",
		Name:             "High Scorer",
		Description:      "Score 90 or above on any module",
		RequirementType:  RequirementModuleScore,
		RequirementValue: 90,
		XPReward:         100,
	},
	{
		Slug:             "course-crusher",
		Name:             "Course Crusher",
		Description:      "Complete 5 modules",
		RequirementType:  RequirementModulesCompleted,
		RequirementValue: 5,
		XPReward:         250,
	},
	{
		Slug:             "marathon-learner",
		Name:             "Marathon Learner",
		Description:      "Complete 20 modules",
		RequirementType:  RequirementModulesCompleted,
		RequirementValue: 20,
		XPReward:         1000,
	},
	{
		Slug:             "speed-runner",
		Name:             "Speed Runner",
		Description:      "Finish a module in under 5 minutes",
		RequirementType:  RequirementModuleCompletionTime,
		RequirementValue: 300,
		XPReward:         150,
	},
}
