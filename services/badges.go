package services

import (
	"fmt"

	"edu-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AwardResult reports whether an award call actually wrote a row.
type AwardResult int

const (
	Awarded AwardResult = iota
	AlreadyAwarded
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// Award grants a badge to a user, idempotently. The write is an atomic
// insert-if-absent against the (user_id, badge_id) unique index — never a
// read-then-write check — so two completion events racing on the same pair
// produce exactly one row. Returns AlreadyAwarded when the pair exists.
func (s *BadgeService) Award(userID, badgeSlug string) (AwardResult, error) {
	var badge models.Badge
	if err := s.DB.Where("slug = ?", badgeSlug).First(&badge).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return AlreadyAwarded, fmt.Errorf("%w: badge %s", ErrNotFound, badgeSlug)
		}
		return AlreadyAwarded, err
	}

	userBadge := models.UserBadge{
		ID:      uuid.NewString(),
		UserID:  userID,
		BadgeID: badge.ID,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&userBadge)
	if res.Error != nil {
		return AlreadyAwarded, res.Error
	}
	if res.RowsAffected == 0 {
		return AlreadyAwarded, nil
	}

	badgesAwardedTotal.Inc()
	fmt.Printf("🎖️ Badge awarded: %s → %s\n", badge.Name, userID)
	return Awarded, nil
}

// ListUserBadges returns the user's badges joined with catalog data.
func (s *BadgeService) ListUserBadges(userID string) ([]map[string]interface{}, error) {
	type row struct {
		models.UserBadge
		Slug        string
		Name        string
		Description string
		IconURL     string
		Rarity      string
	}
	var rows []row
	err := s.DB.Model(&models.UserBadge{}).
		Select("user_badges.*, badges.slug, badges.name, badges.description, badges.icon_url, badges.rarity").
		Joins("INNER JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]interface{}{
			"id":          r.UserBadge.ID,
			"badge_id":    r.BadgeID,
			"slug":        r.Slug,
			"name":        r.Name,
			"description": r.Description,
			"icon_url":    r.IconURL,
			"rarity":      r.Rarity,
			"awarded_at":  r.AwardedAt,
		})
	}
	return out, nil
}

// SeedBadgeCatalog inserts missing catalog rows, keyed by slug. Existing
// rows are left untouched so icon URLs set by admins survive restarts.
func SeedBadgeCatalog(db *gorm.DB) error {
	for _, b := range models.BadgeCatalog {
		badge := b
		badge.ID = uuid.NewString()
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&badge)
		if res.Error != nil {
			return fmt.Errorf("failed to seed badge %s: %w", b.Slug, res.Error)
		}
	}
	return nil
}
