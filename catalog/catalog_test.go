package catalog

import (
	"context"
	"eduverse/apperrors"
	"eduverse/database"
	"eduverse/models/course"
	"eduverse/pricing"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(database.MemoryDSN(t.Name()), gormLogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCourse(t *testing.T, db *gorm.DB, modulePrices ...string) (course.Course, []course.Module) {
	t.Helper()
	c := course.Course{TeacherID: 1, Title: "Go", Status: course.StatusActive}
	require.NoError(t, db.Create(&c).Error)

	var modules []course.Module
	for i, p := range modulePrices {
		m := course.Module{CourseID: c.ID, Title: "m", OrderIndex: i, Price: dec(p)}
		require.NoError(t, db.Create(&m).Error)
		modules = append(modules, m)
	}
	return c, modules
}

func TestRepriceCourse(t *testing.T) {
	db := newTestDB(t)
	cfg := pricing.NewConfig(10, 0)
	c, modules := seedCourse(t, db, "60", "40")

	require.NoError(t, db.Create(&course.CourseContent{CourseID: c.ID, ModuleID: modules[0].ID, DurationSeconds: 300}).Error)
	require.NoError(t, db.Create(&course.CourseContent{CourseID: c.ID, ModuleID: modules[0].ID, DurationSeconds: 120}).Error)

	m, err := RefreshModule(db, cfg, modules[0].ID)
	require.NoError(t, err)
	assert.True(t, dec("66").Equal(m.SellPrice))
	assert.Equal(t, int64(420), m.DurationSeconds)

	got, err := RepriceCourse(db, cfg, c.ID)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(got.Price))
	assert.True(t, dec("110").Equal(got.SellPrice))
	assert.Equal(t, int64(420), got.DurationSeconds)

	// removed modules drop out of the course price
	require.NoError(t, db.Model(&modules[1]).Update("is_deleted", true).Error)
	got, err = RepriceCourse(db, cfg, c.ID)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(got.Price))
	assert.True(t, dec("66").Equal(got.SellPrice))
}

func TestRepriceUnknownCourse(t *testing.T) {
	db := newTestDB(t)

	_, err := RepriceCourse(db, pricing.Config{}, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = RefreshModule(db, pricing.Config{}, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecordSaleUpdatesAllWindows(t *testing.T) {
	db := newTestDB(t)
	c, _ := seedCourse(t, db, "100")
	soldAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		require.NoError(t, RecordSale(db, Sale{ItemType: course.ItemCourse, ItemID: c.ID, SellPrice: dec("110"), SoldAt: soldAt}))
	}

	var got course.Course
	require.NoError(t, db.First(&got, c.ID).Error)
	assert.Equal(t, int64(2), got.TotalSell)
	assert.Equal(t, int64(2), got.LastMonthSell)
	assert.Equal(t, int64(2), got.LastSixMonthSell)
	assert.Equal(t, int64(2), got.LastYearSell)
	assert.True(t, dec("220").Equal(got.TotalRevenue))
	assert.True(t, dec("220").Equal(got.LastYearRevenue))

	var events int64
	require.NoError(t, db.Model(&course.SaleEvent{}).Count(&events).Error)
	assert.Equal(t, int64(2), events)
}

func TestRecordSaleRejectsUnknownItem(t *testing.T) {
	db := newTestDB(t)

	err := RecordSale(db, Sale{ItemType: course.ItemModule, ItemID: 5, SellPrice: dec("1")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = RecordSale(db, Sale{ItemType: "bundle", ItemID: 5})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestWindowRollupDropsExpiredSales(t *testing.T) {
	db := newTestDB(t)
	c, modules := seedCourse(t, db, "100")
	today := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	sales := []struct {
		item  string
		id    uint
		price string
		at    time.Time
	}{
		{course.ItemCourse, c.ID, "110", today.AddDate(0, 0, -3)},
		{course.ItemCourse, c.ID, "110", today.AddDate(0, -3, 0)},
		{course.ItemCourse, c.ID, "100", today.AddDate(0, -9, 0)},
		{course.ItemCourse, c.ID, "90", today.AddDate(-2, 0, 0)},
		{course.ItemModule, modules[0].ID, "110", today.AddDate(0, -2, 0)},
	}
	for _, s := range sales {
		require.NoError(t, RecordSale(db, Sale{ItemType: s.item, ItemID: s.id, SellPrice: dec(s.price), SoldAt: s.at}))
	}

	rollup := &WindowRollup{DB: db, Now: func() time.Time { return today }}
	require.NoError(t, rollup.Run(context.Background()))

	var got course.Course
	require.NoError(t, db.First(&got, c.ID).Error)
	assert.Equal(t, int64(4), got.TotalSell)
	assert.Equal(t, int64(1), got.LastMonthSell)
	assert.Equal(t, int64(2), got.LastSixMonthSell)
	assert.Equal(t, int64(3), got.LastYearSell)
	assert.True(t, dec("110").Equal(got.LastMonthRevenue), got.LastMonthRevenue.String())
	assert.True(t, dec("220").Equal(got.LastSixMonthRevenue), got.LastSixMonthRevenue.String())
	assert.True(t, dec("320").Equal(got.LastYearRevenue), got.LastYearRevenue.String())
	assert.True(t, dec("410").Equal(got.TotalRevenue), got.TotalRevenue.String())

	var m course.Module
	require.NoError(t, db.First(&m, modules[0].ID).Error)
	assert.Equal(t, int64(0), m.LastMonthSell)
	assert.Equal(t, int64(1), m.LastSixMonthSell)
	assert.Equal(t, int64(1), m.LastYearSell)
}

func TestWindowsAtAlignsToDay(t *testing.T) {
	w := WindowsAt(time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC), w.LastMonth)
	assert.Equal(t, time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC), w.LastSixMonth)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), w.LastYear)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler("not a cron", &WindowRollup{})
	assert.Error(t, err)

	s, err := NewScheduler("0 2 * * *", &WindowRollup{})
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
