package quiz

import (
	"context"
	"eduverse/apperrors"
	"eduverse/models"
	quizmodel "eduverse/models/quiz"
	"eduverse/utils"
	"errors"

	"gorm.io/gorm"
)

// place applies s to the quiz leaderboard and stores the new ranking.
// The leaderboard row is written first so concurrent placements on the same
// quiz queue behind its row lock.
func (e *Engine) place(tx *gorm.DB, quizID uint, s Standing) (bool, error) {
	var lb quizmodel.Leaderboard
	err := tx.Where("quiz_id = ?", quizID).First(&lb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.NotFound("Leaderboard")
	}
	if err != nil {
		return false, apperrors.TransactionFailed("load leaderboard", err)
	}
	if err := tx.Model(&lb).Update("updated_at", e.now()).Error; err != nil {
		return false, apperrors.TransactionFailed("lock leaderboard", err)
	}

	var rows []quizmodel.LeaderboardEntry
	if err := tx.Where("leaderboard_id = ?", lb.ID).Order("rank ASC, id ASC").Find(&rows).Error; err != nil {
		return false, apperrors.TransactionFailed("load leaderboard entries", err)
	}

	current := make([]Standing, 0, len(rows))
	byStudent := make(map[uint]quizmodel.LeaderboardEntry, len(rows))
	for _, r := range rows {
		current = append(current, Standing{StudentID: r.StudentID, Marks: r.Marks, TimeTaken: r.TimeTaken, Rank: r.Rank})
		byStudent[r.StudentID] = r
	}

	next, changed := Upsert(current, s, e.cfg.Cap)
	if !changed {
		return false, nil
	}

	kept := make(map[uint]bool, len(next))
	for _, st := range next {
		kept[st.StudentID] = true
		row, ok := byStudent[st.StudentID]
		if !ok {
			row = quizmodel.LeaderboardEntry{
				LeaderboardID: lb.ID,
				StudentID:     st.StudentID,
				Marks:         st.Marks,
				TimeTaken:     st.TimeTaken,
				Rank:          st.Rank,
			}
			if err := tx.Create(&row).Error; err != nil {
				return false, apperrors.TransactionFailed("insert leaderboard entry", err)
			}
			continue
		}
		if row.Marks == st.Marks && row.TimeTaken == st.TimeTaken && row.Rank == st.Rank {
			continue
		}
		if err := tx.Model(&row).Updates(map[string]interface{}{
			"marks":      st.Marks,
			"time_taken": st.TimeTaken,
			"rank":       st.Rank,
		}).Error; err != nil {
			return false, apperrors.TransactionFailed("update leaderboard entry", err)
		}
	}

	var dropped []uint
	for _, r := range rows {
		if !kept[r.StudentID] {
			dropped = append(dropped, r.ID)
		}
	}
	if len(dropped) > 0 {
		if err := tx.Delete(&quizmodel.LeaderboardEntry{}, dropped).Error; err != nil {
			return false, apperrors.TransactionFailed("trim leaderboard", err)
		}
	}
	return true, nil
}

// CorrectLeaderboard lets an admin put a score on a quiz leaderboard outside
// the submission flow. The entry is only replaced by a strictly better score
// and the student's recorded attempt is left untouched.
func (e *Engine) CorrectLeaderboard(ctx context.Context, adminID, quizID, studentID uint, marks int, timeTaken int64) (bool, error) {
	var changed bool

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, adminID, models.RoleAdmin, "Admin"); err != nil {
			return err
		}
		q, err := loadQuiz(tx, quizID)
		if err != nil {
			return err
		}
		if _, err := loadUser(tx, studentID, models.RoleStudent, "Student"); err != nil {
			return err
		}
		if marks < 0 || marks > q.TotalMarks {
			return apperrors.InvalidInput("Marks are out of range for this quiz!")
		}
		if timeTaken < 0 {
			return apperrors.InvalidInput("Time taken must not be negative!")
		}

		changed, err = e.place(tx, quizID, Standing{StudentID: studentID, Marks: marks, TimeTaken: timeTaken})
		return err
	})
	if err != nil {
		return false, apperrors.Wrap("correct leaderboard", err)
	}

	utils.LogQuiz("admin %d corrected quiz %d standing of student %d to %d marks/%ds (applied=%v)", adminID, quizID, studentID, marks, timeTaken, changed)
	if changed {
		e.refreshCache(ctx, quizID)
	}
	return changed, nil
}

// Leaderboard returns the ranked standings of a quiz, through the cache when
// one is configured.
func (e *Engine) Leaderboard(ctx context.Context, quizID uint) ([]Standing, error) {
	if e.cache == nil {
		return e.loadStandings(ctx, quizID)
	}
	return e.cache.Get(ctx, quizID, e.loadStandings)
}

func (e *Engine) loadStandings(ctx context.Context, quizID uint) ([]Standing, error) {
	var lb quizmodel.Leaderboard
	err := e.db.WithContext(ctx).Where("quiz_id = ?", quizID).First(&lb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Leaderboard")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load leaderboard", err)
	}

	var rows []quizmodel.LeaderboardEntry
	if err := e.db.WithContext(ctx).
		Where("leaderboard_id = ?", lb.ID).
		Order("rank ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.TransactionFailed("load leaderboard entries", err)
	}

	standings := make([]Standing, 0, len(rows))
	for _, r := range rows {
		standings = append(standings, Standing{StudentID: r.StudentID, Marks: r.Marks, TimeTaken: r.TimeTaken, Rank: r.Rank})
	}
	return standings, nil
}

// refreshCache stores the committed standings. When they cannot be stored
// the entry is dropped so readers fall back to the database.
func (e *Engine) refreshCache(ctx context.Context, quizID uint) {
	if e.cache == nil {
		return
	}
	standings, err := e.loadStandings(ctx, quizID)
	if err == nil {
		err = e.cache.Set(ctx, quizID, standings)
	}
	if err == nil {
		return
	}
	utils.LogError("[QUIZ] refresh cached leaderboard %d: %v", quizID, err)
	if err := e.cache.Invalidate(ctx, quizID); err != nil {
		utils.LogError("[QUIZ] invalidate cached leaderboard %d: %v", quizID, err)
	}
}
