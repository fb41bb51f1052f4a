package quiz

import (
	"eduverse/apperrors"
	quizmodel "eduverse/models/quiz"
	"fmt"
	"time"
)

// Answer is one submitted choice.
type Answer struct {
	QuestionID          uint `json:"question_id" validate:"required"`
	SelectedAnswerIndex int  `json:"selected_answer_index" validate:"min=0"`
}

// KeyEntry reveals the correct option of a question after submission.
type KeyEntry struct {
	QuestionID         uint `json:"question_id"`
	CorrectAnswerIndex int  `json:"correct_answer_index"`
}

// QuestionInput is a question as written by a teacher.
type QuestionInput struct {
	Text               string   `json:"text" validate:"required"`
	Options            []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswerIndex int      `json:"correct_answer_index" validate:"min=0"`
	Marks              int      `json:"marks" validate:"required,gt=0"`
}

// Grade sums the marks of correctly answered questions. Every answer must
// name a question of the quiz, at most once.
func Grade(questions []quizmodel.Question, answers []Answer) (int, error) {
	byID := make(map[uint]quizmodel.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	seen := make(map[uint]bool, len(answers))
	marks := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return 0, apperrors.InvalidSubmission(fmt.Sprintf("question %d is not part of this quiz", a.QuestionID))
		}
		if seen[a.QuestionID] {
			return 0, apperrors.InvalidSubmission(fmt.Sprintf("question %d answered more than once", a.QuestionID))
		}
		seen[a.QuestionID] = true

		if a.SelectedAnswerIndex == q.CorrectAnswerIndex {
			marks += q.Marks
		}
	}
	return marks, nil
}

// AnswerKey lists the correct option of every question in order.
func AnswerKey(questions []quizmodel.Question) []KeyEntry {
	key := make([]KeyEntry, 0, len(questions))
	for _, q := range questions {
		key = append(key, KeyEntry{QuestionID: q.ID, CorrectAnswerIndex: q.CorrectAnswerIndex})
	}
	return key
}

// TotalMarks is the quiz maximum.
func TotalMarks(questions []quizmodel.Question) int {
	total := 0
	for _, q := range questions {
		total += q.Marks
	}
	return total
}

// TimeTaken is the whole seconds elapsed since the quiz started.
func TimeTaken(startAt, submittedAt time.Time) int64 {
	d := submittedAt.Sub(startAt)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// ValidateQuestion checks a question before it is stored.
func ValidateQuestion(q QuestionInput) error {
	if q.Text == "" {
		return apperrors.InvalidInput("Question text is required!")
	}
	if len(q.Options) < 2 {
		return apperrors.InvalidInput("A question needs at least two options!")
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return apperrors.InvalidInput("Correct answer index is out of range!")
	}
	if q.Marks <= 0 {
		return apperrors.InvalidInput("Marks must be greater than zero!")
	}
	return nil
}
