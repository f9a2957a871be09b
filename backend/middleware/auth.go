package middleware

import (
	"github.com/gofiber/fiber/v2"

	"eduapp/backend/config"
	"eduapp/backend/utils"
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's id and role in the request locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// RequireRoles gates an endpoint to a fixed allowed-role set.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied: insufficient permissions",
		})
	}
}

// CallerID returns the authenticated user's id set by AuthMiddleware.
func CallerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// CallerRole returns the authenticated user's role set by AuthMiddleware.
func CallerRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
