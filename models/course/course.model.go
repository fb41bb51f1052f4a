package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Course statuses
const (
	StatusDraft    = "DRAFT"
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Course represents a learning course owned by a teacher. Price is the sum of
// its module prices; SellPrice is derived from Price by the pricing package.
type Course struct {
	gorm.Model
	TeacherID       uint            `json:"teacher_id" gorm:"index;not null"`
	Title           string          `json:"title"`
	Description     string          `json:"description" gorm:"type:text"`
	Category        string          `json:"category"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	SellPrice       decimal.Decimal `json:"sell_price" gorm:"type:decimal(12,2);not null;default:0"`
	DurationSeconds int64           `json:"duration_seconds" gorm:"default:0"`
	Status          string          `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	Modules         []Module        `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
	IsDeleted       bool            `json:"-" gorm:"default:false"`

	SalesCounters `gorm:"embedded"`
}

// IsPurchasable reports whether students can currently buy the course.
func (c Course) IsPurchasable() bool {
	return c.Status == StatusActive && !c.IsDeleted
}
