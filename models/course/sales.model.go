package course

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale item types
const (
	ItemCourse = "course"
	ItemModule = "module"
)

// SalesCounters holds unit and revenue totals over the tracked windows.
type SalesCounters struct {
	TotalSell           int64           `json:"total_sell" gorm:"default:0"`
	LastMonthSell       int64           `json:"last_month_sell" gorm:"default:0"`
	LastSixMonthSell    int64           `json:"last_six_month_sell" gorm:"default:0"`
	LastYearSell        int64           `json:"last_year_sell" gorm:"default:0"`
	TotalRevenue        decimal.Decimal `json:"total_revenue" gorm:"type:decimal(14,2);not null;default:0"`
	LastMonthRevenue    decimal.Decimal `json:"last_month_revenue" gorm:"type:decimal(14,2);not null;default:0"`
	LastSixMonthRevenue decimal.Decimal `json:"last_six_month_revenue" gorm:"type:decimal(14,2);not null;default:0"`
	LastYearRevenue     decimal.Decimal `json:"last_year_revenue" gorm:"type:decimal(14,2);not null;default:0"`
}

// SaleEvent is the raw log every window counter can be rebuilt from.
type SaleEvent struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ItemType     string          `json:"item_type" gorm:"type:varchar(10);not null;index:idx_sale_item"`
	ItemID       uint            `json:"item_id" gorm:"not null;index:idx_sale_item"`
	EnrollmentID uint            `json:"enrollment_id" gorm:"index"`
	StudentID    uint            `json:"student_id" gorm:"index"`
	SellPrice    decimal.Decimal `json:"sell_price" gorm:"type:decimal(12,2);not null"`
	SoldAt       time.Time       `json:"sold_at" gorm:"not null;index"`
}
