//go:build integration

package quiz

import (
	"context"
	"eduverse/apperrors"
	"eduverse/database/dbtest"
	"eduverse/models"
	quizmodel "eduverse/models/quiz"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentSubmissionsFromOneStudent(t *testing.T) {
	f := fixtureOn(t, dbtest.Postgres(t), 0)
	q := f.quiz(t)
	student := f.user(t, models.RoleStudent)
	answers := []Answer{{QuestionID: q.Questions[0].ID, SelectedAnswerIndex: 1}}

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.SubmitAttempt(context.Background(), student.ID, q.ID, answers)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case apperrors.KindOf(err) == apperrors.KindAlreadyAttempted:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, workers-1, rejected)

	got, err := f.engine.Quiz(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttemptCount)

	var entries int64
	require.NoError(t, f.db.Model(&quizmodel.LeaderboardEntry{}).Count(&entries).Error)
	assert.Equal(t, int64(1), entries)
}

func TestConcurrentSubmissionsKeepBoardSorted(t *testing.T) {
	f := fixtureOn(t, dbtest.Postgres(t), 5)
	q := f.quiz(t)

	const students = 10
	var ids []uint
	for i := 0; i < students; i++ {
		ids = append(ids, f.user(t, models.RoleStudent).ID)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			answers := []Answer{{QuestionID: q.Questions[0].ID, SelectedAnswerIndex: 1}}
			if i%2 == 0 {
				answers = append(answers, Answer{QuestionID: q.Questions[1].ID, SelectedAnswerIndex: 0})
			}
			if _, err := f.engine.SubmitAttempt(context.Background(), id, q.ID, answers); err != nil {
				t.Errorf("student %d: %v", id, err)
			}
		}(i, id)
	}
	wg.Wait()

	got, err := f.engine.Quiz(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, students, got.AttemptCount)

	board, err := f.engine.loadStandings(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, board, 5)
	assert.True(t, Sorted(board))
	for _, s := range board {
		assert.Equal(t, 8, s.Marks)
	}
}
