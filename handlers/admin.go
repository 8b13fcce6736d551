// handlers/admin.go
package handlers

import (
	"playlight-backend/middleware"
	"playlight-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, db *gorm.DB, sessionSecret string) {
	// 🔐 Admin routes: token-bound AND the caller's row is re-read per
	// request so a revoked admin flag takes effect immediately.
	admin := app.Group("/admin",
		middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(sessionSecret),
		middleware.RequireAdmin(db))

	admin.Post("/whitelist", adminService.AddToWhitelist)
	admin.Delete("/whitelist/:email", adminService.RemoveFromWhitelist)
	admin.Put("/all-whitelist", adminService.GetWhitelist)

	admin.Put("/boost/:gameId", adminService.SetBoostFactor)
	admin.Post("/feature/:gameId", adminService.SetFeaturedGame)
	admin.Delete("/feature/:gameId", adminService.ClearFeaturedGame)
}
