// services/modules.go
package services

import (
	"fmt"
	"time"

	"edu-progression-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ModuleService struct {
	DB *gorm.DB
}

func NewModuleService(db *gorm.DB) *ModuleService {
	return &ModuleService{DB: db}
}

// CreateModule creates a learning module with a slug derived from the
// title. Status defaults to draft; scheduled modules need a publish time.
func (s *ModuleService) CreateModule(title, description, category string, xpReward int64, status string, publishAt *time.Time) (*models.LearningModule, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if xpReward < 0 {
		return nil, fmt.Errorf("%w: negative xp reward", ErrValidation)
	}
	switch status {
	case "":
		status = models.ModuleStatusDraft
	case models.ModuleStatusDraft, models.ModuleStatusPublished:
	case models.ModuleStatusScheduled:
		if publishAt == nil {
			return nil, fmt.Errorf("%w: scheduled module needs publish_at", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	module := models.LearningModule{
		ID:          uuid.NewString(),
		Slug:        slug.Make(title),
		Title:       title,
		Description: description,
		Category:    category,
		XPReward:    xpReward,
		Status:      status,
		PublishAt:   publishAt,
	}
	if err := s.DB.Create(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// GetBySlug resolves a module; unknown slugs map to ErrNotFound.
func (s *ModuleService) GetBySlug(moduleSlug string) (*models.LearningModule, error) {
	var module models.LearningModule
	if err := s.DB.Where("slug = ?", moduleSlug).First(&module).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: module %s", ErrNotFound, moduleSlug)
		}
		return nil, err
	}
	return &module, nil
}

// ListPublished returns the modules learners can see.
func (s *ModuleService) ListPublished() ([]models.LearningModule, error) {
	var modules []models.LearningModule
	err := s.DB.Where("status = ?", models.ModuleStatusPublished).
		Order("created_at ASC").
		Find(&modules).Error
	return modules, err
}

// SetAssetURL stores the CDN URL of an uploaded module asset.
func (s *ModuleService) SetAssetURL(moduleSlug, url string) error {
	res := s.DB.Model(&models.LearningModule{}).
		Where("slug = ?", moduleSlug).
		Update("asset_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: module %s", ErrNotFound, moduleSlug)
	}
	return nil
}
