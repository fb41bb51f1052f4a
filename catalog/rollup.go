package catalog

import (
	"context"
	"eduverse/models/course"
	"eduverse/utils"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Windows are the cut-off times of the rolling sales windows.
type Windows struct {
	LastMonth    time.Time
	LastSixMonth time.Time
	LastYear     time.Time
}

// WindowsAt aligns the windows to the start of t's day so every run on the
// same day agrees.
func WindowsAt(t time.Time) Windows {
	day := now.With(t).BeginningOfDay()
	return Windows{
		LastMonth:    day.AddDate(0, -1, 0),
		LastSixMonth: day.AddDate(0, -6, 0),
		LastYear:     day.AddDate(-1, 0, 0),
	}
}

// WindowRollup rebuilds the last-month/six-month/year counters of courses and
// modules from the SaleEvent log. Totals are never touched.
type WindowRollup struct {
	DB  *gorm.DB
	Now func() time.Time
}

type windowSum struct {
	ItemID  uint
	Units   int64
	Revenue decimal.Decimal
}

type windowColumns struct {
	since   func(Windows) time.Time
	units   string
	revenue string
}

var windowCols = []windowColumns{
	{func(w Windows) time.Time { return w.LastMonth }, "last_month_sell", "last_month_revenue"},
	{func(w Windows) time.Time { return w.LastSixMonth }, "last_six_month_sell", "last_six_month_revenue"},
	{func(w Windows) time.Time { return w.LastYear }, "last_year_sell", "last_year_revenue"},
}

// Run recomputes all windows in one transaction.
func (r *WindowRollup) Run(ctx context.Context) error {
	clock := r.Now
	if clock == nil {
		clock = time.Now
	}
	w := WindowsAt(clock())

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rollupItems(tx, &course.Course{}, course.ItemCourse, w); err != nil {
			return err
		}
		return rollupItems(tx, &course.Module{}, course.ItemModule, w)
	})
}

func rollupItems(tx *gorm.DB, model interface{}, itemType string, w Windows) error {
	reset := map[string]interface{}{}
	for _, col := range windowCols {
		reset[col.units] = 0
		reset[col.revenue] = decimal.Zero
	}
	if err := tx.Model(model).Where("1 = 1").Updates(reset).Error; err != nil {
		return errors.Wrapf(err, "reset %s windows", itemType)
	}

	for _, col := range windowCols {
		var sums []windowSum
		if err := tx.Model(&course.SaleEvent{}).
			Select("item_id, COUNT(*) AS units, COALESCE(SUM(sell_price), 0) AS revenue").
			Where("item_type = ? AND sold_at >= ?", itemType, col.since(w)).
			Group("item_id").
			Scan(&sums).Error; err != nil {
			return errors.Wrapf(err, "sum %s %s", itemType, col.units)
		}

		for _, s := range sums {
			if err := tx.Model(model).Where("id = ?", s.ItemID).Updates(map[string]interface{}{
				col.units:   s.Units,
				col.revenue: s.Revenue,
			}).Error; err != nil {
				return errors.Wrapf(err, "update %s %d", itemType, s.ItemID)
			}
		}
	}
	return nil
}

// Scheduler runs the rollup on a cron spec.
type Scheduler struct {
	cron   *cron.Cron
	rollup *WindowRollup
}

// NewScheduler registers the rollup job; Start begins running it.
func NewScheduler(spec string, rollup *WindowRollup) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, rollup: rollup}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, errors.Wrapf(err, "invalid sales rollup schedule %q", spec)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	utils.LogScheduler("Running sales window rollup...")
	started := time.Now()
	if err := s.rollup.Run(context.Background()); err != nil {
		utils.LogError("[SALES-SCHEDULER] rollup failed: %v", err)
		return
	}
	utils.LogScheduler("Sales window rollup finished in %s", time.Since(started))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	utils.LogScheduler("Sales scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	utils.LogScheduler("Sales scheduler stopped")
}
