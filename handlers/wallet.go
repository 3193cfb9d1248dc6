package handlers

import (
	"starzup-platform/middleware"
	"starzup-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService) {
	// All wallet operations require a session
	secured := app.Group("/wallet", middleware.RequireAuth())
	secured.Post("/deposit", walletService.DepositFunds)
	secured.Post("/withdraw", walletService.WithdrawFunds)
	secured.Get("/transactions", walletService.ListTransactions)
}
