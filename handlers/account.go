// handlers/account.go
package handlers

import (
	"playlight-backend/middleware"
	"playlight-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(app *fiber.App, accountService *services.AccountService) {
	account := app.Group("/account")

	account.Post("/register", middleware.RegisterLimiter(), accountService.Register)
	account.Post("/login", middleware.LoginLimiter(), accountService.Login)
	account.Post("/reset-password-request", middleware.SuperHeavyLimiter(), accountService.RequestPasswordReset)
	account.Post("/reset-password", middleware.StandardLimiter(), accountService.ResetPassword)

	// 🔐 Token-bound routes — the id in the path/body must match the token.
	account.Get("/user/:id", middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(accountService.SessionSecret), accountService.GetUser)
	account.Delete("/delete", middleware.StandardLimiter(),
		middleware.AuthWithIDMatch(accountService.SessionSecret), accountService.DeleteAccount)
}
