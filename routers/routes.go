// Package routers mounts every route group on the app.
package routers

import (
	authController "eduverse/controllers/auth"
	controllers "eduverse/controllers/course"
	quizController "eduverse/controllers/quiz"
	superAdminController "eduverse/controllers/superAdmin"
	userController "eduverse/controllers/userControllers"
	walletController "eduverse/controllers/wallet"
	authRoutes "eduverse/routers/authRoutes"
	courseRoutes "eduverse/routers/courseRoutes"
	quizRoutes "eduverse/routers/quizRoutes"
	superAdminRoutes "eduverse/routers/superAdmin"
	userProfileRoutes "eduverse/routers/userRoutes"
	walletRoutes "eduverse/routers/walletRoutes"

	"github.com/gofiber/fiber/v2"
)

// Controllers are the handlers the routes are bound to.
type Controllers struct {
	Auth   *authController.AuthController
	User   *userController.UserController
	Course *controllers.CourseController
	Quiz   *quizController.QuizController
	Wallet *walletController.WalletController
	Admin  *superAdminController.AdminController
}

func Setup(app fiber.Router, c Controllers) {
	authRoutes.SetupAuthRoutes(app, c.Auth)
	userProfileRoutes.SetupUserRoutes(app, c.User)
	courseRoutes.SetupTeacherCourseRoutes(app, c.Course)
	courseRoutes.SetupCourseRoutes(app, c.Course)
	quizRoutes.SetupQuizRoutes(app, c.Quiz)
	walletRoutes.SetupWalletRoutes(app, c.Wallet)
	superAdminRoutes.SetupSuperAdminRoutes(app, c.Admin)
}
