package middleware

import (
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthMiddleware resolves the authenticated principal from the access
// token and stores it on the request for handlers downstream.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.ExtractUserFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c).Role != "admin" {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the principal stored by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(userKey).(models.User)
	return user
}
