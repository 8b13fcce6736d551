// handlers/contact.go
package handlers

import (
	"playlight-backend/middleware"
	"playlight-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContactRoutes(app *fiber.App, contactService *services.ContactService) {
	contact := app.Group("/contact")

	contact.Post("/submit", middleware.HeavyLimiter(), contactService.SubmitForm)
}
