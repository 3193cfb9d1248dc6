package handlers

import (
	"starzup-platform/middleware"
	"starzup-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	// 🔓 Public: sign-up and sign-in
	app.Post("/auth/signup", authService.SignUp)
	app.Post("/auth/signin", authService.SignIn)

	// 🔐 Authenticated
	secured := app.Group("/", middleware.RequireAuth())
	secured.Get("/users/me", authService.Me)

	// 🔒 Admin-only
	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Post("/users/:id/results", authService.RecordMatchResult)

	// Internal operator tooling (service token, not a user session)
	internal := app.Group("/internal", middleware.RequireServiceToken())
	internal.Post("/users/:id/admin", authService.GrantAdmin)
}
