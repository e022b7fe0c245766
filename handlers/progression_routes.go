// handlers/progression_routes.go
package handlers

import (
	"errors"
	"strconv"

	"edu-progression-system/middleware"
	"edu-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(
	app *fiber.App,
	completionService *services.CompletionService,
	progressionService *services.ProgressionService,
	badgeService *services.BadgeService,
	achievementService *services.AchievementService,
	moduleService *services.ModuleService,
	leaderboardService *services.LeaderboardService,
) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/modules/:slug/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		module, err := moduleService.GetBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to resolve module",
				"cause": err.Error(),
			})
		}

		type Req struct {
			EventID          string `json:"event_id"`
			Score            int    `json:"score" validate:"min=0,max=100"`
			TimeSpentSeconds int    `json:"time_spent_seconds" validate:"min=0"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := completionService.ProcessCompletion(c.Context(), services.CompletionEvent{
			EventID:          req.EventID,
			UserID:           userID,
			ModuleID:         module.ID,
			Score:            req.Score,
			TimeSpentSeconds: req.TimeSpentSeconds,
		})
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrDuplicateEvent):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "completion event already processed"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "completion failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	securedGroup.Post("/user/modules/:slug/start", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		module, err := moduleService.GetBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve module"})
		}

		progress, err := completionService.StartModule(c.Context(), userID, module.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start module",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		summary, err := progressionService.GetSummary(userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get progress",
				"cause": err.Error(),
			})
		}

		modules, err := progressionService.ListModuleProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get module progress",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"xp":                summary.XP,
			"level":             summary.Level,
			"streak":            summary.Streak,
			"completed_modules": summary.CompletedModules,
			"badge_count":       summary.BadgeCount,
			"modules":           modules,
		})
	})

	securedGroup.Get("/user/progress/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		badges, err := badgeService.ListUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	securedGroup.Get("/user/progress/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		achievements, err := achievementService.ListUserAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(achievements)
	})

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		n, _ := strconv.Atoi(c.Query("limit", "20"))
		entries, err := leaderboardService.Top(c.Context(), n)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := progressionService.GrantXP(req.UserID, req.XP, req.Reason)
		switch {
		case errors.Is(err, services.ErrInvalidAward):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP grant failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": user.ID,
			"xp":      user.XP,
			"level":   user.Level,
		})
	})
}
