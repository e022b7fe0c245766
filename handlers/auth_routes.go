// handlers/auth_routes.go
package handlers

import (
	"errors"
	"time"

	"edu-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, loginService *services.LoginService) {
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		type Req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := loginService.Login(c.Context(), req.Email, req.Password, time.Now())
		switch {
		case errors.Is(err, services.ErrRateLimited):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many login attempts, try again later",
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid email or password",
			})
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "login failed",
				"cause": err.Error(),
			})
		}

		// Token issuance happens at the gateway; this service reports the
		// refreshed learner state only.
		return c.JSON(fiber.Map{
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"xp":           user.XP,
			"level":        user.Level,
			"streak":       user.Streak,
		})
	})
}
