package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus defines the status of a gateway order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentOrder is a reward-point top-up paid through the payment gateway.
type PaymentOrder struct {
	gorm.Model
	StudentID      uint            `gorm:"not null;index" json:"student_id"`
	OrderID        string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Points         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"points"`
	Status         PaymentStatus   `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	PaymentGateway string          `gorm:"type:varchar(50)" json:"payment_gateway"`
	GatewayToken   string          `gorm:"type:varchar(255)" json:"gateway_token"`
	RedirectURL    string          `gorm:"type:text" json:"redirect_url"`
	PaymentType    string          `gorm:"type:varchar(50)" json:"payment_type"`
	ResponseRaw    string          `gorm:"type:text" json:"-"`
	PaidAt         *time.Time      `json:"paid_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

// SalaryPayout records an admin settling part of a teacher's balance.
type SalaryPayout struct {
	gorm.Model
	TeacherID uint            `gorm:"not null;index" json:"teacher_id"`
	AdminID   uint            `gorm:"not null" json:"admin_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Reference string          `gorm:"type:varchar(100)" json:"reference"`
	Note      string          `gorm:"type:text" json:"note"`
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`
}
