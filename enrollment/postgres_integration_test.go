//go:build integration

package enrollment

import (
	"context"
	"eduverse/apperrors"
	"eduverse/database/dbtest"
	"eduverse/models"
	"eduverse/models/course"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentCoursePurchasesEnrollOnce(t *testing.T) {
	f := fixtureOn(t, dbtest.Postgres(t), "1000")
	c, _ := f.course(t, f.teacher.ID, "60", "40")

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		enrolled int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.PurchaseCourse(context.Background(), f.student.ID, c.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				enrolled++
			case apperrors.KindOf(err) == apperrors.KindAlreadyEnrolled:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, enrolled)
	assert.Equal(t, workers-1, rejected)
	assert.True(t, dec("890").Equal(f.reload(t, f.student.ID).RewardPoints), f.reload(t, f.student.ID).RewardPoints.String())
	assert.True(t, dec("100").Equal(f.reload(t, f.teacher.ID).Balance))
	assert.Equal(t, int64(1), f.count(t, &course.Enrollment{}))
	assert.Equal(t, int64(2), f.count(t, &course.EnrollmentModule{}))
	assert.Equal(t, int64(1), f.count(t, &models.RewardHistory{}))

	var got course.Course
	require.NoError(t, f.db.First(&got, c.ID).Error)
	assert.Equal(t, int64(1), got.TotalSell)
}

func TestConcurrentModulePurchasesChargeOnce(t *testing.T) {
	f := fixtureOn(t, dbtest.Postgres(t), "1000")
	c, modules := f.course(t, f.teacher.ID, "50", "100")

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		bought   int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.PurchaseModule(context.Background(), f.student.ID, c.ID, modules[0].ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				bought++
			case apperrors.KindOf(err) == apperrors.KindAlreadyEnrolled:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, bought)
	assert.Equal(t, workers-1, rejected)
	assert.True(t, dec("945").Equal(f.reload(t, f.student.ID).RewardPoints))
	assert.Equal(t, int64(1), f.count(t, &course.Enrollment{}))
	assert.Equal(t, int64(1), f.count(t, &course.EnrollmentModule{}))
	assert.Equal(t, int64(1), f.count(t, &models.BalanceHistory{}))
}
