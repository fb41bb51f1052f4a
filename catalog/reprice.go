package catalog

import (
	"eduverse/apperrors"
	"eduverse/models/course"
	"eduverse/pricing"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefreshModule recomputes a module's sell price from its price and its
// duration from its live content rows.
func RefreshModule(tx *gorm.DB, cfg pricing.Config, moduleID uint) (*course.Module, error) {
	var module course.Module
	err := tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Module")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load module", err)
	}

	var durations []int64
	if err := tx.Model(&course.CourseContent{}).
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Pluck("duration_seconds", &durations).Error; err != nil {
		return nil, apperrors.TransactionFailed("load module content", err)
	}

	module.SellPrice = cfg.ModuleSellPrice(module.Price)
	module.DurationSeconds = pricing.TotalDuration(durations)

	if err := tx.Model(&module).Updates(map[string]interface{}{
		"sell_price":       module.SellPrice,
		"duration_seconds": module.DurationSeconds,
	}).Error; err != nil {
		return nil, apperrors.TransactionFailed("update module", err)
	}
	return &module, nil
}

// RepriceCourse recomputes a course's price, sell price and duration from its
// live modules. Run it after any module is created, changed or removed.
func RepriceCourse(tx *gorm.DB, cfg pricing.Config, courseID uint) (*course.Course, error) {
	var c course.Course
	err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Course")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load course", err)
	}

	var modules []course.Module
	if err := tx.Select("id", "price", "duration_seconds").
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Find(&modules).Error; err != nil {
		return nil, apperrors.TransactionFailed("load course modules", err)
	}

	prices := make([]decimal.Decimal, 0, len(modules))
	durations := make([]int64, 0, len(modules))
	for _, m := range modules {
		prices = append(prices, m.Price)
		durations = append(durations, m.DurationSeconds)
	}

	c.Price = pricing.CoursePrice(prices)
	c.SellPrice = cfg.CourseSellPrice(c.Price)
	c.DurationSeconds = pricing.TotalDuration(durations)

	if err := tx.Model(&c).Updates(map[string]interface{}{
		"price":            c.Price,
		"sell_price":       c.SellPrice,
		"duration_seconds": c.DurationSeconds,
	}).Error; err != nil {
		return nil, apperrors.TransactionFailed("update course", err)
	}
	return &c, nil
}
