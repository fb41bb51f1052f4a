//go:build integration

package ledger_test

import (
	"eduverse/apperrors"
	"eduverse/database/dbtest"
	"eduverse/ledger"
	"eduverse/models"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	db := dbtest.Postgres(t)

	student := models.User{
		Name:         "Sam Student",
		Email:        "sam@example.com",
		Role:         models.RoleStudent,
		Password:     "x",
		RewardPoints: decimal.NewFromInt(50),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&student).Error)

	const workers = 12
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				_, err := ledger.DebitPoints(tx, student.ID, decimal.NewFromInt(10), ledger.Entry{
					Reason:        fmt.Sprintf("purchase %d", i),
					ReferenceType: models.ReferenceModule,
					ReferenceID:   uint(i + 1),
				})
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.KindOf(err) == apperrors.KindInsufficientFunds:
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, insufficient)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	assert.True(t, reloaded.RewardPoints.IsZero(), reloaded.RewardPoints.String())

	var rows int64
	require.NoError(t, db.Model(&models.RewardHistory{}).Where("user_id = ?", student.ID).Count(&rows).Error)
	assert.Equal(t, int64(5), rows)
}
