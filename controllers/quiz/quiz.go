package quizController

import (
	"eduverse/middleware"
	"eduverse/quiz"
	quizValidator "eduverse/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

type QuizController struct {
	Engine *quiz.Engine
}

func New(engine *quiz.Engine) *QuizController {
	return &QuizController{Engine: engine}
}

func (h *QuizController) CreateQuiz(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedQuiz").(*quiz.QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	q, err := h.Engine.CreateQuiz(c.UserContext(), userId, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully.", q)
}

func (h *QuizController) AddQuestion(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	quizID := c.Locals("id").(uint)
	reqData, ok := c.Locals("validatedQuestion").(*quiz.QuestionInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question, err := h.Engine.AddQuestion(c.UserContext(), userId, quizID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully.", question)
}

func (h *QuizController) DeleteQuestion(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	quizID := c.Locals("id").(uint)
	questionID := c.Locals("question_id").(uint)

	if err := h.Engine.DeleteQuestion(c.UserContext(), userId, quizID, questionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully.", nil)
}

// GetQuiz returns the quiz with its questions. Correct answers stay hidden.
func (h *QuizController) GetQuiz(c *fiber.Ctx) error {
	q, err := h.Engine.Quiz(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", q)
}

func (h *QuizController) SubmitAttempt(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	quizID := c.Locals("id").(uint)
	reqData, ok := c.Locals("validatedAttempt").(*quizValidator.SubmitAttemptRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := h.Engine.SubmitAttempt(c.UserContext(), userId, quizID, reqData.Answers)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz submitted successfully.", result)
}

func (h *QuizController) GetLeaderboard(c *fiber.Ctx) error {
	standings, err := h.Engine.Leaderboard(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully.", standings)
}
