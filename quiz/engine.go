// Package quiz grades quiz submissions and keeps each quiz's leaderboard
// ranked. A student gets exactly one attempt per quiz.
package quiz

import (
	"context"
	"eduverse/apperrors"
	"eduverse/models"
	"eduverse/models/course"
	quizmodel "eduverse/models/quiz"
	"eduverse/utils"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Config bounds the leaderboards. Cap 0 keeps every entry.
type Config struct {
	Cap int
}

// LeaderboardCache is a read-through store of ranked standings.
type LeaderboardCache interface {
	Get(ctx context.Context, quizID uint, load func(context.Context, uint) ([]Standing, error)) ([]Standing, error)
	Set(ctx context.Context, quizID uint, standings []Standing) error
	Invalidate(ctx context.Context, quizID uint) error
}

// QuizInput is a new quiz with its questions.
type QuizInput struct {
	CourseID        *uint           `json:"course_id"`
	Title           string          `json:"title" validate:"required,min=3"`
	Description     string          `json:"description"`
	StartAt         time.Time       `json:"start_at" validate:"required"`
	DurationSeconds int64           `json:"duration_seconds" validate:"min=0"`
	Questions       []QuestionInput `json:"questions" validate:"dive"`
}

// AttemptResult is returned to the student right after submitting.
type AttemptResult struct {
	MarksObtained int        `json:"marks_obtained"`
	MaxMarks      int        `json:"max_marks"`
	TimeTaken     int64      `json:"time_taken"`
	AttemptCount  int        `json:"attempt_count"`
	Answers       []Answer   `json:"answers"`
	AnswerKey     []KeyEntry `json:"answer_key"`
}

type Engine struct {
	db    *gorm.DB
	cfg   Config
	cache LeaderboardCache
	now   func() time.Time
}

// NewEngine builds the engine. cache may be nil.
func NewEngine(db *gorm.DB, cfg Config, cache LeaderboardCache) *Engine {
	return newEngineWithClock(db, cfg, cache, time.Now)
}

func newEngineWithClock(db *gorm.DB, cfg Config, cache LeaderboardCache, now func() time.Time) *Engine {
	return &Engine{db: db, cfg: cfg, cache: cache, now: now}
}

// CreateQuiz stores a quiz, its questions and its empty leaderboard together.
func (e *Engine) CreateQuiz(ctx context.Context, teacherID uint, in QuizInput) (*quizmodel.Quiz, error) {
	if in.Title == "" {
		return nil, apperrors.InvalidInput("Quiz title is required!")
	}
	if in.StartAt.IsZero() {
		return nil, apperrors.InvalidInput("Quiz start time is required!")
	}
	if in.DurationSeconds < 0 {
		return nil, apperrors.InvalidInput("Duration must not be negative!")
	}

	q := quizmodel.Quiz{
		TeacherID:       teacherID,
		CourseID:        in.CourseID,
		Title:           in.Title,
		Description:     in.Description,
		StartAt:         in.StartAt,
		DurationSeconds: in.DurationSeconds,
	}
	for i, qi := range in.Questions {
		if err := ValidateQuestion(qi); err != nil {
			return nil, err
		}
		q.Questions = append(q.Questions, newQuestion(qi, i))
	}
	q.TotalMarks = TotalMarks(q.Questions)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, teacherID, models.RoleTeacher, "Teacher"); err != nil {
			return err
		}
		if in.CourseID != nil {
			var c course.Course
			err := tx.Where("id = ? AND is_deleted = ?", *in.CourseID, false).First(&c).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Course")
			}
			if err != nil {
				return apperrors.TransactionFailed("load course", err)
			}
			if c.TeacherID != teacherID {
				return apperrors.Unauthorized("You do not own this course!")
			}
		}

		if err := tx.Create(&q).Error; err != nil {
			return apperrors.TransactionFailed("create quiz", err)
		}
		if err := tx.Create(&quizmodel.Leaderboard{QuizID: q.ID}).Error; err != nil {
			return apperrors.TransactionFailed("create leaderboard", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap("create quiz", err)
	}

	utils.LogQuiz("teacher %d created quiz %d with %d questions", teacherID, q.ID, len(q.Questions))
	return &q, nil
}

// AddQuestion appends a question to a quiz the teacher owns.
func (e *Engine) AddQuestion(ctx context.Context, teacherID, quizID uint, in QuestionInput) (*quizmodel.Question, error) {
	if err := ValidateQuestion(in); err != nil {
		return nil, err
	}

	var question quizmodel.Question
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := loadOwnedQuiz(tx, teacherID, quizID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&quizmodel.Question{}).Where("quiz_id = ?", q.ID).Count(&count).Error; err != nil {
			return apperrors.TransactionFailed("count questions", err)
		}

		question = newQuestion(in, int(count))
		question.QuizID = q.ID
		if err := tx.Create(&question).Error; err != nil {
			return apperrors.TransactionFailed("create question", err)
		}
		return refreshTotalMarks(tx, q.ID)
	})
	if err != nil {
		return nil, apperrors.Wrap("add question", err)
	}
	return &question, nil
}

// DeleteQuestion removes a question from a quiz the teacher owns.
func (e *Engine) DeleteQuestion(ctx context.Context, teacherID, quizID, questionID uint) error {
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := loadOwnedQuiz(tx, teacherID, quizID)
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND quiz_id = ?", questionID, q.ID).Delete(&quizmodel.Question{})
		if res.Error != nil {
			return apperrors.TransactionFailed("delete question", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Question")
		}
		return refreshTotalMarks(tx, q.ID)
	})
	return apperrors.Wrap("delete question", err)
}

// Quiz returns a quiz with its questions. Correct answers are not serialized.
func (e *Engine) Quiz(ctx context.Context, quizID uint) (*quizmodel.Quiz, error) {
	q, err := loadQuiz(e.db.WithContext(ctx), quizID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// SubmitAttempt grades a student's one submission, records it and places the
// score on the leaderboard, all in one transaction.
func (e *Engine) SubmitAttempt(ctx context.Context, studentID, quizID uint, answers []Answer) (*AttemptResult, error) {
	var result AttemptResult

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := loadQuiz(tx, quizID)
		if err != nil {
			return err
		}

		now := e.now()
		if now.Before(q.StartAt) {
			return apperrors.InvalidInput("Quiz has not started yet!")
		}

		if _, err := loadUser(tx, studentID, models.RoleStudent, "Student"); err != nil {
			return err
		}

		var prior int64
		if err := tx.Model(&quizmodel.QuizAttempt{}).
			Where("quiz_id = ? AND student_id = ?", quizID, studentID).
			Count(&prior).Error; err != nil {
			return apperrors.TransactionFailed("check attempts", err)
		}
		if prior > 0 {
			return apperrors.AlreadyAttempted("Quiz already attempted!")
		}

		marks, err := Grade(q.Questions, answers)
		if err != nil {
			return err
		}
		timeTaken := TimeTaken(q.StartAt, now)

		submitted := make([]quizmodel.SubmittedAnswer, 0, len(answers))
		for _, a := range answers {
			submitted = append(submitted, quizmodel.SubmittedAnswer{QuestionID: a.QuestionID, SelectedAnswerIndex: a.SelectedAnswerIndex})
		}
		attempt := quizmodel.QuizAttempt{
			QuizID:           quizID,
			StudentID:        studentID,
			Marks:            marks,
			MaxMarks:         q.TotalMarks,
			TimeTaken:        timeTaken,
			SubmittedAnswers: datatypes.NewJSONSlice(submitted),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.AlreadyAttempted("Quiz already attempted!")
			}
			return apperrors.TransactionFailed("record attempt", err)
		}

		if err := tx.Model(&quizmodel.Quiz{}).Where("id = ?", quizID).
			Update("attempt_count", gorm.Expr("attempt_count + ?", 1)).Error; err != nil {
			return apperrors.TransactionFailed("count attempt", err)
		}
		var count int
		if err := tx.Model(&quizmodel.Quiz{}).Where("id = ?", quizID).
			Select("attempt_count").Scan(&count).Error; err != nil {
			return apperrors.TransactionFailed("read attempt count", err)
		}

		if _, err := e.place(tx, quizID, Standing{StudentID: studentID, Marks: marks, TimeTaken: timeTaken}); err != nil {
			return err
		}

		result = AttemptResult{
			MarksObtained: marks,
			MaxMarks:      q.TotalMarks,
			TimeTaken:     timeTaken,
			AttemptCount:  count,
			Answers:       answers,
			AnswerKey:     AnswerKey(q.Questions),
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap("submit attempt", err)
	}

	utils.LogQuiz("student %d scored %d/%d on quiz %d in %ds", studentID, result.MarksObtained, result.MaxMarks, quizID, result.TimeTaken)
	e.refreshCache(ctx, quizID)
	return &result, nil
}

func newQuestion(in QuestionInput, order int) quizmodel.Question {
	return quizmodel.Question{
		Text:               in.Text,
		Options:            datatypes.NewJSONSlice(in.Options),
		CorrectAnswerIndex: in.CorrectAnswerIndex,
		Marks:              in.Marks,
		OrderIndex:         order,
	}
}

func refreshTotalMarks(tx *gorm.DB, quizID uint) error {
	var questions []quizmodel.Question
	if err := tx.Select("id", "marks").Where("quiz_id = ?", quizID).Find(&questions).Error; err != nil {
		return apperrors.TransactionFailed("load questions", err)
	}
	if err := tx.Model(&quizmodel.Quiz{}).Where("id = ?", quizID).
		Update("total_marks", TotalMarks(questions)).Error; err != nil {
		return apperrors.TransactionFailed("update total marks", err)
	}
	return nil
}

func loadQuiz(tx *gorm.DB, quizID uint) (*quizmodel.Quiz, error) {
	var q quizmodel.Quiz
	err := tx.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC, id ASC")
	}).Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Quiz")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load quiz", err)
	}
	return &q, nil
}

func loadOwnedQuiz(tx *gorm.DB, teacherID, quizID uint) (*quizmodel.Quiz, error) {
	var q quizmodel.Quiz
	err := tx.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Quiz")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load quiz", err)
	}
	if q.TeacherID != teacherID {
		return nil, apperrors.Unauthorized("You do not own this quiz!")
	}
	return &q, nil
}

func loadUser(tx *gorm.DB, id uint, role, what string) (*models.User, error) {
	var u models.User
	err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound(what)
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load user", err)
	}
	if u.Role != role {
		return nil, apperrors.Unauthorized("Access Denied!")
	}
	return &u, nil
}
