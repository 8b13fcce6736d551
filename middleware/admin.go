// middleware/admin.go
package middleware

import (
	"errors"
	"log"

	"playlight-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireAdmin re-reads the caller's user row on every request instead of
// trusting a role claim baked into the token, so revoking admin takes effect
// immediately. Must run after AuthWithIDMatch.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required."})
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required."})
			}
			log.Printf("❌ [ADMIN] failed to load user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error."})
		}

		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required."})
		}

		return c.Next()
	}
}
