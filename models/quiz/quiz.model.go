package quiz

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is a timed set of questions owned by a teacher. TotalMarks is the sum
// of its question marks and is rewritten whenever a question changes.
type Quiz struct {
	gorm.Model
	TeacherID       uint       `json:"teacher_id" gorm:"index;not null"`
	CourseID        *uint      `json:"course_id" gorm:"index"`
	Title           string     `json:"title"`
	Description     string     `json:"description" gorm:"type:text"`
	StartAt         time.Time  `json:"start_at" gorm:"not null"`
	DurationSeconds int64      `json:"duration_seconds" gorm:"default:0"`
	TotalMarks      int        `json:"total_marks" gorm:"default:0"`
	AttemptCount    int        `json:"attempt_count" gorm:"default:0"`
	Questions       []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	IsDeleted       bool       `json:"-" gorm:"default:false"`
}

// Question is a single-choice question. CorrectAnswerIndex points into Options.
type Question struct {
	gorm.Model
	QuizID             uint                        `json:"quiz_id" gorm:"index;not null"`
	Text               string                      `json:"text" gorm:"type:text"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswerIndex int                         `json:"-"`
	Marks              int                         `json:"marks" gorm:"default:1"`
	OrderIndex         int                         `json:"order_index" gorm:"default:0"`
}

// SubmittedAnswer is one answer as stored on an attempt
type SubmittedAnswer struct {
	QuestionID          uint `json:"question_id"`
	SelectedAnswerIndex int  `json:"selected_answer_index"`
}

// QuizAttempt is a student's single, immutable submission for a quiz.
type QuizAttempt struct {
	ID               uint                                 `json:"id" gorm:"primaryKey"`
	QuizID           uint                                 `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_quiz_student"`
	StudentID        uint                                 `json:"student_id" gorm:"not null;uniqueIndex:idx_attempt_quiz_student"`
	Marks            int                                  `json:"marks"`
	MaxMarks         int                                  `json:"max_marks"`
	TimeTaken        int64                                `json:"time_taken"` // seconds since quiz start
	SubmittedAnswers datatypes.JSONSlice[SubmittedAnswer] `json:"submitted_answers"`
	CreatedAt        time.Time                            `json:"created_at"`
}

// Leaderboard is created with its quiz and holds the ranked entries.
type Leaderboard struct {
	ID        uint               `json:"id" gorm:"primaryKey"`
	QuizID    uint               `json:"quiz_id" gorm:"uniqueIndex;not null"`
	Entries   []LeaderboardEntry `json:"entries,omitempty" gorm:"foreignKey:LeaderboardID"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// LeaderboardEntry is a student's best recorded standing on one leaderboard.
type LeaderboardEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	LeaderboardID uint      `json:"leaderboard_id" gorm:"not null;uniqueIndex:idx_leaderboard_student"`
	StudentID     uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_leaderboard_student"`
	Marks         int       `json:"marks"`
	TimeTaken     int64     `json:"time_taken"`
	Rank          int       `json:"rank" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}
