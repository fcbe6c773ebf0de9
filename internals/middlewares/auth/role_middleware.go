package auth

import (
	"github.com/gofiber/fiber/v2"

	"kelasku_backend/internals/constants"
)

// RequireAdmin: hanya role admin yang lolos (dipakai grup /api/a)
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != constants.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("admin"))
		}
		return c.Next()
	}
}
