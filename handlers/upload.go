// handlers/upload.go
package handlers

import (
	"playlight-backend/middleware"
	"playlight-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App, uploadService *services.UploadService, sessionSecret string) {
	uploads := app.Group("/uploads",
		middleware.HeavyLimiter(),
		middleware.AuthWithIDMatch(sessionSecret))

	uploads.Post("/logo", uploadService.UploadLogo)
	uploads.Post("/cover-image", uploadService.UploadCoverImage)
	uploads.Post("/cover-video", uploadService.UploadCoverVideo)
}
