package userProfileRoutes

import (
	userController "eduverse/controllers/userControllers"
	"eduverse/middleware"
	"eduverse/models"
	userValidator "eduverse/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app fiber.Router, h *userController.UserController) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", h.GetProfile)
	userGroup.Put("/profile", userValidator.UpdateProfile(), h.UpdateProfile)
	userGroup.Get("/enrollments", middleware.RequireRole(models.RoleStudent), h.GetEnrollments)
}
