package services

import (
	"fmt"

	"edu-progression-system/models"

	"gorm.io/gorm"
)

// XPPerLevel: flat level curve, level N covers [ (N-1)*500, N*500 ).
const XPPerLevel = 500

// LevelOf derives the level from total XP. Callers must recompute the
// level after every XP mutation — the two fields are never set
// independently.
func LevelOf(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(xp/XPPerLevel) + 1
}

// AwardXP returns the new XP total. A negative delta is rejected so XP can
// never decrease.
func AwardXP(current, delta int64) (int64, error) {
	if delta < 0 {
		return current, fmt.Errorf("%w: delta %d", ErrInvalidAward, delta)
	}
	return current + delta, nil
}

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// GrantXP atomically adds XP to a user and recomputes the level.
// Used by the admin grant endpoint; module completions go through
// CompletionService instead.
func (s *ProgressionService) GrantXP(userID string, delta int64, reason string) (*models.User, error) {
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return err
		}

		newXP, err := AwardXP(user.XP, delta)
		if err != nil {
			return err
		}
		user.XP = newXP
		user.Level = LevelOf(newXP)

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updated = &models.User{}
		*updated = user

		fmt.Printf("🎓 XP Granted: %s → XP=%d, Lvl=%d (reason: %s)\n",
			userID, user.XP, user.Level, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ProgressSummary is the learner-facing progression snapshot.
type ProgressSummary struct {
	XP               int64 `json:"xp"`
	Level            int   `json:"level"`
	Streak           int   `json:"streak"`
	CompletedModules int64 `json:"completed_modules"`
	BadgeCount       int64 `json:"badge_count"`
}

// GetSummary returns the progression snapshot for a user.
func (s *ProgressionService) GetSummary(userID string) (*ProgressSummary, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}

	var completed int64
	if err := s.DB.Model(&models.ModuleProgress{}).
		Where("user_id = ? AND status IN ?", userID, models.CompletedStatuses).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	var badges int64
	if err := s.DB.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&badges).Error; err != nil {
		return nil, err
	}

	return &ProgressSummary{
		XP:               user.XP,
		Level:            user.Level,
		Streak:           user.Streak,
		CompletedModules: completed,
		BadgeCount:       badges,
	}, nil
}

// ListModuleProgress returns all per-module progress rows for a user.
func (s *ProgressionService) ListModuleProgress(userID string) ([]models.ModuleProgress, error) {
	var rows []models.ModuleProgress
	err := s.DB.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}
