// services/scheduler.go
package services

import (
	"log"
	"time"

	"edu-progression-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartPublishScheduler flips scheduled modules to published once their
// publish time passes, and sweeps expired login-guard windows.
func (s *ModuleService) StartPublishScheduler(guard *MemoryRateLimitStore) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish scheduled modules
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var modules []models.LearningModule
			now := time.Now()
			err := s.DB.Where("status = ? AND publish_at <= ?", models.ModuleStatusScheduled, now).
				Find(&modules).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, m := range modules {
				m.Status = models.ModuleStatusPublished
				m.PublishAt = nil
				if err := s.DB.Save(&m).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish module %s: %v", m.ID, err)
				} else {
					log.Printf("✅ Auto-published module: %s", m.Title)
				}
			}
		}),
	)

	if guard != nil {
		_, _ = sched.NewJob(
			gocron.DurationJob(5*time.Minute),
			gocron.NewTask(func() {
				guard.Cleanup(time.Now())
			}),
		)
	}
}
