// handlers/game.go
package handlers

import (
	"playlight-backend/middleware"
	"playlight-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, sessionSecret string) {
	game := app.Group("/game")

	// 🔐 All game CRUD is token-bound. List rides on the caller's user id;
	// the other routes carry it in the body.
	game.Get("/:id", middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(sessionSecret), gameService.ListGames)
	game.Post("/", middleware.HeavyLimiter(),
		middleware.AuthWithIDMatch(sessionSecret), gameService.CreateGame)
	game.Put("/:gameId", middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(sessionSecret), gameService.UpdateGame)
	game.Delete("/:gameId", middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(sessionSecret), gameService.DeleteGame)
	game.Put("/:gameId/statistics", middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(sessionSecret), gameService.GetGameStatistics)
}
