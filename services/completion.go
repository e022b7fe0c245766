package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edu-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionEvent is the input triggering the progression engine: a
// learner finished a module attempt. EventID is optional; when the client
// supplies one, resubmitting the same event is rejected instead of
// re-awarding XP.
type CompletionEvent struct {
	EventID          string `json:"event_id,omitempty"`
	UserID           string `json:"user_id"`
	ModuleID         string `json:"module_id"`
	Score            int    `json:"score"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// UserSnapshot is the post-completion XP/level state returned to callers.
type UserSnapshot struct {
	XP    int64 `json:"xp"`
	Level int   `json:"level"`
}

// CompletionResult summarizes everything one completion event changed.
type CompletionResult struct {
	Progress              *models.ModuleProgress `json:"progress"`
	User                  UserSnapshot           `json:"user"`
	BadgesAwarded         int                    `json:"badges_awarded"`
	AchievementsCompleted []string               `json:"achievements_completed,omitempty"`
	XPGained              int64                  `json:"xp_gained"`
}

// CompletionService is the only component that touches multiple entities
// per event. The whole flow runs in one DB transaction, serialized per
// user by an in-process keyed mutex so two near-simultaneous completions
// (e.g., two browser tabs) cannot lose XP or streak updates. Running more
// than one instance requires moving the serialization to the database
// (per-user advisory lock) — the transaction boundary already supports it.
type CompletionService struct {
	DB *gorm.DB

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewCompletionService(db *gorm.DB) *CompletionService {
	return &CompletionService{
		DB:        db,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *CompletionService) lockUser(userID string) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// ProcessCompletion applies one completion event:
//  1. upsert ModuleProgress (score, time, status, attempts+1)
//  2. award the module's flat XP reward, recompute level
//  3. recount completed modules
//  4. evaluate badge triggers with the updated count
//  5. evaluate all achievements (their rewards land in the same tx)
//  6. return the summary
//
// Any step failing rolls back the entire transaction — no partial state.
func (s *CompletionService) ProcessCompletion(ctx context.Context, ev CompletionEvent) (*CompletionResult, error) {
	if ev.Score < 0 || ev.Score > 100 {
		return nil, fmt.Errorf("%w: score %d out of range [0,100]", ErrValidation, ev.Score)
	}
	if ev.TimeSpentSeconds < 0 {
		return nil, fmt.Errorf("%w: negative time spent %d", ErrValidation, ev.TimeSpentSeconds)
	}
	if ev.UserID == "" || ev.ModuleID == "" {
		return nil, fmt.Errorf("%w: user id and module id are required", ErrValidation)
	}

	unlock := s.lockUser(ev.UserID)
	defer unlock()

	var result *CompletionResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if ev.EventID != "" {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ProcessedEvent{
				EventID:  ev.EventID,
				UserID:   ev.UserID,
				ModuleID: ev.ModuleID,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: event %s", ErrDuplicateEvent, ev.EventID)
			}
		}

		var user models.User
		if err := tx.Where("id = ?", ev.UserID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: user %s", ErrNotFound, ev.UserID)
			}
			return err
		}

		var module models.LearningModule
		if err := tx.Where("id = ?", ev.ModuleID).First(&module).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: module %s", ErrNotFound, ev.ModuleID)
			}
			return err
		}

		// Step 1: upsert progress. Status is recomputed on every attempt;
		// retries are allowed, not a forward-only machine.
		status := models.ProgressPassed
		if ev.Score >= 60 {
			status = models.ProgressCompleted
		}

		var progress models.ModuleProgress
		err := tx.Where("user_id = ? AND module_id = ?", ev.UserID, ev.ModuleID).First(&progress).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			progress = models.ModuleProgress{
				ID:       uuid.NewString(),
				UserID:   ev.UserID,
				ModuleID: ev.ModuleID,
			}
		case err != nil:
			return err
		}
		progress.Score = ev.Score
		progress.TimeSpentSeconds = ev.TimeSpentSeconds
		progress.Status = status
		progress.Attempts++
		completedAt := now
		progress.CompletedAt = &completedAt
		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		// Step 2: flat module reward, not prorated by score.
		newXP, err := AwardXP(user.XP, module.XPReward)
		if err != nil {
			return err
		}
		xpGained := module.XPReward

		// Step 3: recount with the fresh upsert visible.
		var totalCompleted int64
		if err := tx.Model(&models.ModuleProgress{}).
			Where("user_id = ? AND status IN ?", ev.UserID, models.CompletedStatuses).
			Count(&totalCompleted).Error; err != nil {
			return err
		}

		// Step 4: badge triggers.
		badgeSvc := NewBadgeService(tx)
		badgesAwarded := 0

		if totalCompleted == 1 {
			res, err := badgeSvc.Award(ev.UserID, "first-steps")
			if err != nil {
				return err
			}
			if res == Awarded {
				badgesAwarded++
			}
		}

		if badgeSlug, ok := models.ModuleBadges[module.Slug]; ok {
			res, err := badgeSvc.Award(ev.UserID, badgeSlug)
			if err != nil {
				return err
			}
			if res == Awarded {
				badgesAwarded++
			}
		}

		if ev.Score == 100 {
			// TODO: wire the flawless badge award once product decides
			// whether perfect scores should grant it retroactively.
			var perfectBadge models.Badge
			if err := tx.Where("slug = ?", models.PerfectScoreBadgeSlug).
				First(&perfectBadge).Error; err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
		}

		// Step 5: achievements, rewards granted inside the same tx.
		achSvc := NewAchievementService(tx)
		outcome, err := achSvc.EvaluateAll(ev.UserID, EventContext{
			Score:            ev.Score,
			TimeSpentSeconds: ev.TimeSpentSeconds,
			CompletedModules: totalCompleted,
		}, now)
		if err != nil {
			return err
		}
		if outcome.XPGained > 0 {
			newXP, err = AwardXP(newXP, outcome.XPGained)
			if err != nil {
				return err
			}
			xpGained += outcome.XPGained
		}

		user.XP = newXP
		user.Level = LevelOf(newXP)
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		progressCopy := progress
		result = &CompletionResult{
			Progress:              &progressCopy,
			User:                  UserSnapshot{XP: user.XP, Level: user.Level},
			BadgesAwarded:         badgesAwarded,
			AchievementsCompleted: outcome.CompletedSlugs,
			XPGained:              xpGained,
		}

		fmt.Printf("📚 Completion: user=%s module=%s score=%d status=%s → XP=%d Lvl=%d badges+%d\n",
			ev.UserID, module.Slug, ev.Score, status, user.XP, user.Level, badgesAwarded)
		return nil
	})
	if err != nil {
		completionEventsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	completionEventsTotal.WithLabelValues("ok").Inc()
	return result, nil
}

// StartModule marks a module as IN_PROGRESS on first interaction. No-op if
// a progress row already exists.
func (s *CompletionService) StartModule(ctx context.Context, userID, moduleID string) (*models.ModuleProgress, error) {
	var module models.LearningModule
	if err := s.DB.WithContext(ctx).Where("id = ?", moduleID).First(&module).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: module %s", ErrNotFound, moduleID)
		}
		return nil, err
	}

	progress := models.ModuleProgress{
		ID:       uuid.NewString(),
		UserID:   userID,
		ModuleID: moduleID,
		Status:   models.ProgressInProgress,
	}
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&progress)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.DB.WithContext(ctx).
			Where("user_id = ? AND module_id = ?", userID, moduleID).
			First(&progress).Error; err != nil {
			return nil, err
		}
	}
	return &progress, nil
}
