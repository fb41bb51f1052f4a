package authRoutes

import (
	authController "eduverse/controllers/auth"
	"eduverse/middleware"
	authValidator "eduverse/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app fiber.Router, h *authController.AuthController) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), h.Register)
	authGroup.Post("/send-otp", authValidator.SendOTP(), h.SendOTP)
	authGroup.Post("/verify-otp", authValidator.VerifyOTP(), h.VerifyOTP)
	authGroup.Post("/login", authValidator.Login(), h.Login)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authValidator.LoginHistory(), h.LoginHistoryList)
}
