// middleware/auth.go
package middleware

import (
	"log"
	"strconv"
	"strings"

	"playlight-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthWithIDMatch verifies the bearer token and checks that the user id it
// carries matches the id supplied in the request body or path parameter.
// Handlers behind it can trust c.Locals("user_id").
func AuthWithIDMatch(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No authentication token in request. Try signing out and in again.",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(token, secret)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "An error occurred decoding the authentication token.",
			})
		}

		requestID := requestUserID(c)
		if requestID == 0 || requestID != claims.UserID {
			log.Printf("🚫 [AUTH] token user %d does not match requested user %d on %s", claims.UserID, requestID, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "User ID from access token does not match requested user id.",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Subject)
		return c.Next()
	}
}

// requestUserID pulls the caller-asserted user id from the path parameter
// or, failing that, from the JSON or multipart body.
func requestUserID(c *fiber.Ctx) uint {
	if raw := c.Params("id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(id)
		}
	}

	var body struct {
		ID uint `json:"id" form:"id"`
	}
	if err := c.BodyParser(&body); err == nil && body.ID != 0 {
		return body.ID
	}

	if raw := c.FormValue("id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(id)
		}
	}
	return 0
}
