// Package catalog keeps course and module aggregates in step with their
// parts: prices, durations and sales counters.
package catalog

import (
	"eduverse/apperrors"
	"eduverse/models/course"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is one unit sold, as recorded against a course or module.
type Sale struct {
	ItemType     string
	ItemID       uint
	EnrollmentID uint
	StudentID    uint
	SellPrice    decimal.Decimal
	SoldAt       time.Time
}

// RecordSale bumps every window counter of the item by one unit and the sell
// price, then appends the SaleEvent the windows are rebuilt from.
func RecordSale(tx *gorm.DB, s Sale) error {
	var model interface{}
	switch s.ItemType {
	case course.ItemCourse:
		model = &course.Course{}
	case course.ItemModule:
		model = &course.Module{}
	default:
		return apperrors.InvalidInput("unknown sale item type " + s.ItemType)
	}

	res := tx.Model(model).Where("id = ?", s.ItemID).Updates(map[string]interface{}{
		"total_sell":             gorm.Expr("total_sell + ?", 1),
		"last_month_sell":        gorm.Expr("last_month_sell + ?", 1),
		"last_six_month_sell":    gorm.Expr("last_six_month_sell + ?", 1),
		"last_year_sell":         gorm.Expr("last_year_sell + ?", 1),
		"total_revenue":          gorm.Expr("total_revenue + ?", s.SellPrice),
		"last_month_revenue":     gorm.Expr("last_month_revenue + ?", s.SellPrice),
		"last_six_month_revenue": gorm.Expr("last_six_month_revenue + ?", s.SellPrice),
		"last_year_revenue":      gorm.Expr("last_year_revenue + ?", s.SellPrice),
	})
	if res.Error != nil {
		return apperrors.TransactionFailed("update sales counters", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(itemName(s.ItemType))
	}

	event := course.SaleEvent{
		ItemType:     s.ItemType,
		ItemID:       s.ItemID,
		EnrollmentID: s.EnrollmentID,
		StudentID:    s.StudentID,
		SellPrice:    s.SellPrice,
		SoldAt:       s.SoldAt,
	}
	if err := tx.Create(&event).Error; err != nil {
		return apperrors.TransactionFailed("record sale event", err)
	}
	return nil
}

func itemName(itemType string) string {
	if itemType == course.ItemModule {
		return "Module"
	}
	return "Course"
}
