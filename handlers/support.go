package handlers

import (
	"starzup-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App, supportService *services.SupportService) {
	// 🔓 Public — the support widget works without a session
	app.Post("/support/chat", supportService.Chat)
	app.Get("/support/quick-replies", supportService.QuickReplies)
}
