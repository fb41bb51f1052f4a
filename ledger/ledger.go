// Package ledger mutates account balances and appends the matching history
// rows. Every function takes the caller's transaction handle; a balance change
// and its history entry are only meaningful when committed together.
package ledger

import (
	"eduverse/apperrors"
	"eduverse/models"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry describes why a balance moved.
type Entry struct {
	Reason        string
	ReferenceType string
	ReferenceID   uint
}

// DebitPoints takes amount from a student's reward points. The funds check
// and the write are a single conditional UPDATE, so concurrent debits cannot
// drive the balance negative. Returns the points left.
func DebitPoints(tx *gorm.DB, userID uint, amount decimal.Decimal, e Entry) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperrors.InvalidInput("amount must not be negative")
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND reward_points >= ?", userID, amount).
		Update("reward_points", gorm.Expr("reward_points - ?", amount))
	if res.Error != nil {
		return decimal.Zero, apperrors.TransactionFailed("debit reward points", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := load(tx, userID); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, apperrors.InsufficientFunds("Insufficient reward points!")
	}

	return appendReward(tx, userID, amount.Neg(), e)
}

// CreditPoints adds amount to a student's reward points.
func CreditPoints(tx *gorm.DB, userID uint, amount decimal.Decimal, e Entry) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperrors.InvalidInput("amount must not be negative")
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("reward_points", gorm.Expr("reward_points + ?", amount))
	if res.Error != nil {
		return decimal.Zero, apperrors.TransactionFailed("credit reward points", res.Error)
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, apperrors.NotFound("User")
	}

	return appendReward(tx, userID, amount, e)
}

// CreditBalance adds a sale's base price to a teacher's balance.
func CreditBalance(tx *gorm.DB, teacherID uint, amount decimal.Decimal, e Entry) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperrors.InvalidInput("amount must not be negative")
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", teacherID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return decimal.Zero, apperrors.TransactionFailed("credit teacher balance", res.Error)
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, apperrors.NotFound("Teacher")
	}

	return appendBalance(tx, teacherID, amount, e)
}

// DebitBalance settles part of a teacher's balance, e.g. a salary payout.
func DebitBalance(tx *gorm.DB, teacherID uint, amount decimal.Decimal, e Entry) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperrors.InvalidInput("amount must not be negative")
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND balance >= ?", teacherID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return decimal.Zero, apperrors.TransactionFailed("debit teacher balance", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := load(tx, teacherID); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, apperrors.InsufficientFunds("Insufficient balance!")
	}

	return appendBalance(tx, teacherID, amount.Neg(), e)
}

func appendReward(tx *gorm.DB, userID uint, signed decimal.Decimal, e Entry) (decimal.Decimal, error) {
	user, err := load(tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	row := models.RewardHistory{
		UserID:        userID,
		Amount:        signed,
		BalanceAfter:  user.RewardPoints,
		Reason:        e.Reason,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return decimal.Zero, apperrors.TransactionFailed("append reward history", err)
	}
	return user.RewardPoints, nil
}

func appendBalance(tx *gorm.DB, userID uint, signed decimal.Decimal, e Entry) (decimal.Decimal, error) {
	user, err := load(tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	row := models.BalanceHistory{
		UserID:        userID,
		Amount:        signed,
		BalanceAfter:  user.Balance,
		Reason:        e.Reason,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return decimal.Zero, apperrors.TransactionFailed("append balance history", err)
	}
	return user.Balance, nil
}

func load(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.Select("id", "reward_points", "balance").
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load account", err)
	}
	return &user, nil
}
