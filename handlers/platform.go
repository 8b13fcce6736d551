// handlers/platform.go
package handlers

import (
	"playlight-backend/middleware"
	"playlight-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupPlatformRoutes(app *fiber.App, platformService *services.PlatformService) {
	// The widget is embedded on arbitrary game domains, so the whole
	// platform surface is open to any origin.
	platform := app.Group("/platform", cors.New(cors.Config{AllowOrigins: "*"}))

	platform.Get("/suggestions/:category?", middleware.StandardLimiter(), platformService.GetSuggestions)
	platform.Get("/game-by-domain/:domain", middleware.StandardLimiter(), platformService.GetGameByDomain)
	platform.Get("/categories", middleware.StandardLimiter(), platformService.GetCategories)
	platform.Get("/total-statistics", middleware.StandardLimiter(), platformService.GetTotalStatistics)

	platform.Post("/event/open", middleware.HeavyLimiter(), platformService.RecordOpenEvent)
	platform.Post("/event/click", middleware.HeavyLimiter(), platformService.RecordClickEvent)

	platform.Post("/rating/:gameId/:action", middleware.HeavyLimiter(), platformService.RateGame)
}
