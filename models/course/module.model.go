package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Module represents a separately purchasable section of a course
type Module struct {
	gorm.Model
	CourseID        uint            `json:"course_id" gorm:"index;not null"`
	Title           string          `json:"title"`
	Description     string          `json:"description" gorm:"type:text"`
	OrderIndex      int             `json:"order_index" gorm:"default:0"` // Module order in course
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	SellPrice       decimal.Decimal `json:"sell_price" gorm:"type:decimal(12,2);not null;default:0"`
	DurationSeconds int64           `json:"duration_seconds" gorm:"default:0"`
	IsDeleted       bool            `json:"-" gorm:"default:false"`

	SalesCounters `gorm:"embedded"`
}
