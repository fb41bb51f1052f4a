package superAdminRoutes

import (
	superAdminController "eduverse/controllers/superAdmin"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/validators"
	quizValidator "eduverse/validators/quiz"
	walletValidator "eduverse/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app fiber.Router, h *superAdminController.AdminController) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/user/list", walletValidator.History(), h.UserList)
	adminGroup.Post("/teacher/:id/payout", validators.Params("id"), walletValidator.Payout(), h.PayoutTeacher)
	adminGroup.Post("/quiz/:id/leaderboard", validators.Params("id"), quizValidator.CorrectLeaderboard(), h.CorrectLeaderboard)
}
