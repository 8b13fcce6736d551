// middleware/cors.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// DashboardCORS restricts the dashboard surface to the configured origins.
// The /platform group is skipped entirely: the widget is embedded on
// arbitrary game domains and carries its own open policy, and an app-wide
// handler would answer platform preflights before the group's middleware
// ever runs.
func DashboardCORS(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/platform")
		},
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}
