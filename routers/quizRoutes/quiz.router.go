package quizRoutes

import (
	quizController "eduverse/controllers/quiz"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/validators"
	quizValidator "eduverse/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app fiber.Router, h *quizController.QuizController) {
	teacherGroup := app.Group("/teacher/quiz", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher))
	teacherGroup.Post("/", quizValidator.CreateQuiz(), h.CreateQuiz)
	teacherGroup.Post("/:id/question", validators.Params("id"), quizValidator.AddQuestion(), h.AddQuestion)
	teacherGroup.Delete("/:id/question/:question_id", validators.Params("id", "question_id"), h.DeleteQuestion)

	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)
	quizGroup.Get("/:id", validators.Params("id"), h.GetQuiz)
	quizGroup.Get("/:id/leaderboard", validators.Params("id"), h.GetLeaderboard)
	quizGroup.Post("/:id/attempt", middleware.RequireRole(models.RoleStudent), validators.Params("id"), quizValidator.SubmitAttempt(), h.SubmitAttempt)
}
