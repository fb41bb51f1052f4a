package payments

import (
	"context"
	"eduverse/apperrors"
	"eduverse/ledger"
	"eduverse/models"
	"eduverse/notify"
	"eduverse/utils"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutResult is a committed salary settlement.
type PayoutResult struct {
	Payout         models.SalaryPayout `json:"payout"`
	TeacherBalance decimal.Decimal     `json:"teacher_balance"`
}

// Payout settles amount of a teacher's earned balance. The balance can never
// go below zero.
func (s *Service) Payout(ctx context.Context, adminID, teacherID uint, amount decimal.Decimal, reference, note string) (*PayoutResult, error) {
	if !amount.IsPositive() {
		return nil, apperrors.InvalidInput("Payout amount must be positive!")
	}

	var (
		result  PayoutResult
		teacher *models.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, adminID, models.RoleAdmin, "Admin"); err != nil {
			return err
		}
		var err error
		if teacher, err = loadUser(tx, teacherID, models.RoleTeacher, "Teacher"); err != nil {
			return err
		}

		result.Payout = models.SalaryPayout{
			TeacherID: teacherID,
			AdminID:   adminID,
			Amount:    amount,
			Reference: reference,
			Note:      note,
			PaidAt:    s.now(),
		}
		if err := tx.Create(&result.Payout).Error; err != nil {
			return apperrors.TransactionFailed("create payout", err)
		}

		result.TeacherBalance, err = ledger.DebitBalance(tx, teacherID, amount, ledger.Entry{
			Reason:        fmt.Sprintf("Salary payout %s", reference),
			ReferenceType: models.ReferencePayout,
			ReferenceID:   result.Payout.ID,
		})
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap("teacher payout", err)
	}

	utils.LogPurchase("admin %d paid out %s to teacher %d", adminID, amount, teacherID)
	notify.Dispatch(s.notifier, notify.PayoutEmail(teacher.Email, teacher.Name, amount.String(), reference))
	return &result, nil
}
