package services

import (
	"fmt"
	"time"

	"edu-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// EventContext carries the facts an achievement rule can match against:
// the just-submitted score and time, plus the user's completed-module
// total after the current completion was counted.
type EventContext struct {
	Score            int
	TimeSpentSeconds int
	CompletedModules int64
}

// EvaluateRequirement computes (progress, completed) for one rule. The
// type switch is exhaustive over the three requirement variants; an
// unknown variant is an error, not a silent skip.
func EvaluateRequirement(req models.Requirement, ctx EventContext) (int, bool, error) {
	switch r := req.(type) {
	case models.ModuleScore:
		if ctx.Score >= r.Threshold {
			return 100, true, nil
		}
		return 0, false, nil
	case models.ModulesCompleted:
		if r.Count <= 0 {
			return 0, false, fmt.Errorf("modules_completed requirement with count %d", r.Count)
		}
		progress := int(ctx.CompletedModules * 100 / int64(r.Count))
		if progress > 100 {
			progress = 100
		}
		return progress, ctx.CompletedModules >= int64(r.Count), nil
	case models.ModuleCompletionTime:
		if ctx.TimeSpentSeconds <= r.MaxSeconds {
			return 100, true, nil
		}
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("unhandled requirement variant %T", req)
}

// EvaluationOutcome summarizes one EvaluateAll pass.
type EvaluationOutcome struct {
	XPGained       int64
	CompletedSlugs []string
	EvaluatedCount int
}

// EvaluateAll runs every catalog achievement against the event context and
// upserts the user's rows. Progress only ever moves up (clamped to
// max(previous, new)); the completed flag flips false→true at most once
// and the XP reward is counted on that transition only, by checking the
// previously stored flag — the evaluator runs on every completion event,
// not just the first time a threshold is met.
func (s *AchievementService) EvaluateAll(userID string, ctx EventContext, now time.Time) (*EvaluationOutcome, error) {
	var achievements []models.Achievement
	if err := s.DB.Find(&achievements).Error; err != nil {
		return nil, err
	}

	outcome := &EvaluationOutcome{}
	for _, a := range achievements {
		req, err := a.Requirement()
		if err != nil {
			return nil, err
		}
		progress, completed, err := EvaluateRequirement(req, ctx)
		if err != nil {
			return nil, err
		}

		var ua models.UserAchievement
		err = s.DB.Where("user_id = ? AND achievement_id = ?", userID, a.ID).First(&ua).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			ua = models.UserAchievement{
				ID:            uuid.NewString(),
				UserID:        userID,
				AchievementID: a.ID,
			}
		case err != nil:
			return nil, err
		}

		if progress > ua.Progress {
			ua.Progress = progress
		}
		if completed && !ua.Completed {
			ua.Completed = true
			completedAt := now
			ua.CompletedAt = &completedAt
			outcome.XPGained += a.XPReward
			outcome.CompletedSlugs = append(outcome.CompletedSlugs, a.Slug)
			achievementsCompletedTotal.Inc()
			fmt.Printf("🏆 Achievement completed: %s → %s (+%d XP)\n", a.Slug, userID, a.XPReward)
		}

		if err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"progress", "completed", "completed_at", "updated_at",
			}),
		}).Create(&ua).Error; err != nil {
			return nil, err
		}
		outcome.EvaluatedCount++
	}
	return outcome, nil
}

// ListUserAchievements returns catalog achievements joined with the user's
// progress rows; achievements the user never touched come back with zero
// progress.
func (s *AchievementService) ListUserAchievements(userID string) ([]map[string]interface{}, error) {
	var achievements []models.Achievement
	if err := s.DB.Order("slug ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}

	var rows []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byAchievement := make(map[string]models.UserAchievement, len(rows))
	for _, r := range rows {
		byAchievement[r.AchievementID] = r
	}

	out := make([]map[string]interface{}, 0, len(achievements))
	for _, a := range achievements {
		ua := byAchievement[a.ID]
		entry := map[string]interface{}{
			"slug":        a.Slug,
			"name":        a.Name,
			"description": a.Description,
			"xp_reward":   a.XPReward,
			"progress":    ua.Progress,
			"completed":   ua.Completed,
		}
		if ua.CompletedAt != nil {
			entry["completed_at"] = ua.CompletedAt
		}
		out = append(out, entry)
	}
	return out, nil
}

// SeedAchievementCatalog inserts missing catalog rows, keyed by slug.
func SeedAchievementCatalog(db *gorm.DB) error {
	for _, a := range models.AchievementCatalog {
		achievement := a
		achievement.ID = uuid.NewString()
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&achievement)
		if res.Error != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.Slug, res.Error)
		}
	}
	return nil
}
