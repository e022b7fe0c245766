// handlers/module_routes.go
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"edu-progression-system/middleware"
	"edu-progression-system/services"
	"edu-progression-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupModuleRoutes(app *fiber.App, moduleService *services.ModuleService, storage *utils.ObjectStorage) {
	app.Get("/modules", func(c *fiber.Ctx) error {
		modules, err := moduleService.ListPublished()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list modules",
				"cause": err.Error(),
			})
		}
		return c.JSON(modules)
	})

	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/modules", func(c *fiber.Ctx) error {
		type Req struct {
			Title       string     `json:"title" validate:"required"`
			Description string     `json:"description"`
			Category    string     `json:"category"`
			XPReward    int64      `json:"xp_reward" validate:"min=0"`
			Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
			PublishAt   *time.Time `json:"publish_at"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		module, err := moduleService.CreateModule(
			req.Title, req.Description, req.Category, req.XPReward, req.Status, req.PublishAt)
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create module",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(module)
	})

	adminGroup.Post("/modules/:slug/asset", func(c *fiber.Ctx) error {
		moduleSlug := c.Params("slug")

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
		}

		key := fmt.Sprintf("module-assets/%s-%s%s",
			moduleSlug, uuid.NewString(), filepath.Ext(fileHeader.Filename))
		url, err := storage.UploadFile(c.Context(), fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "upload failed",
				"cause": err.Error(),
			})
		}

		if err := moduleService.SetAssetURL(moduleSlug, url); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save asset URL",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"asset_url": url})
	})
}
