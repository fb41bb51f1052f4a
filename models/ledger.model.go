package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger reference types
const (
	ReferenceCourse  = "course"
	ReferenceModule  = "module"
	ReferencePayment = "payment"
	ReferencePayout  = "payout"
)

// BalanceHistory is one append-only change of a teacher's Balance.
// Amount is signed: sales are positive, payouts negative.
type BalanceHistory struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balance_after"`
	Reason        string          `gorm:"type:text" json:"reason"`
	ReferenceType string          `gorm:"type:varchar(20)" json:"reference_type"`
	ReferenceID   uint            `gorm:"default:0" json:"reference_id"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
}

func (BalanceHistory) TableName() string {
	return "balance_histories"
}

// RewardHistory is one append-only change of a student's RewardPoints.
type RewardHistory struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balance_after"`
	Reason        string          `gorm:"type:text" json:"reason"`
	ReferenceType string          `gorm:"type:varchar(20)" json:"reference_type"`
	ReferenceID   uint            `gorm:"default:0" json:"reference_id"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
}

func (RewardHistory) TableName() string {
	return "reward_histories"
}
