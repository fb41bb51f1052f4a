package quizValidator

import (
	"eduverse/quiz"
	"eduverse/validators"

	"github.com/gofiber/fiber/v2"
)

type SubmitAttemptRequest struct {
	Answers []quiz.Answer `json:"answers" validate:"dive"`
}

type CorrectLeaderboardRequest struct {
	StudentID uint  `json:"student_id" validate:"required"`
	Marks     int   `json:"marks" validate:"min=0"`
	TimeTaken int64 `json:"time_taken" validate:"min=0"`
}

func CreateQuiz() fiber.Handler {
	return validators.Body[quiz.QuizInput]("validatedQuiz")
}

func AddQuestion() fiber.Handler {
	return validators.Body[quiz.QuestionInput]("validatedQuestion")
}

func SubmitAttempt() fiber.Handler {
	return validators.Body[SubmitAttemptRequest]("validatedAttempt")
}

func CorrectLeaderboard() fiber.Handler {
	return validators.Body[CorrectLeaderboardRequest]("validatedCorrection")
}
