package walletRoutes

import (
	walletController "eduverse/controllers/wallet"
	"eduverse/middleware"
	"eduverse/models"
	walletValidator "eduverse/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app fiber.Router, h *walletController.WalletController) {
	walletGroup := app.Group("/wallet")

	// gateway callback, authenticated by its signature
	walletGroup.Post("/payment/notify", h.PaymentNotify)

	walletGroup.Get("/balance", middleware.JWTMiddleware, h.GetWalletBalance)
	walletGroup.Get("/history", middleware.JWTMiddleware, walletValidator.History(), h.GetWalletHistory)

	student := middleware.RequireRole(models.RoleStudent)
	walletGroup.Post("/topup", middleware.JWTMiddleware, student, walletValidator.TopUp(), h.TopUp)
	walletGroup.Get("/orders", middleware.JWTMiddleware, student, walletValidator.History(), h.GetPaymentOrders)
}
