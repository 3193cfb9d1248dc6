package handlers

import (
	"starzup-platform/middleware"
	"starzup-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, registrationService *services.RegistrationService) {
	// 🔓 Public: open tournaments, detail pages and the landing stats
	app.Get("/tournaments", tournamentService.ListOpenTournaments)
	app.Get("/tournaments/:id", tournamentService.GetTournamentByID)
	app.Get("/tournaments/:id/roster", registrationService.GetRoster)
	app.Get("/stats", tournamentService.GetPlatformStats)

	// 🔐 Authenticated: paid registration
	secured := app.Group("/", middleware.RequireAuth())
	secured.Post("/tournaments/:id/register", registrationService.RegisterForTournament)

	// 🔒 Admin-only: tournament lifecycle
	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Post("/tournaments", tournamentService.CreateTournament)
	admin.Get("/tournaments", tournamentService.GetAllTournaments)
	admin.Patch("/tournaments/:id/status", tournamentService.UpdateTournamentStatus)
	admin.Delete("/tournaments/:id", tournamentService.DeleteTournament)
}
