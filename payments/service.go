package payments

import (
	"context"
	"eduverse/apperrors"
	"eduverse/ledger"
	"eduverse/models"
	"eduverse/notify"
	"eduverse/utils"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db            *gorm.DB
	gateway       Gateway
	notifier      notify.Notifier
	pointsPerUnit decimal.Decimal
	now           func() time.Time
}

// NewService wires the reward point shop. pointsPerUnit is how many points
// one unit of paid currency buys.
func NewService(db *gorm.DB, gateway Gateway, notifier notify.Notifier, pointsPerUnit float64) *Service {
	return newServiceWithClock(db, gateway, notifier, pointsPerUnit, time.Now)
}

func newServiceWithClock(db *gorm.DB, gateway Gateway, notifier notify.Notifier, pointsPerUnit float64, now func() time.Time) *Service {
	return &Service{
		db:            db,
		gateway:       gateway,
		notifier:      notifier,
		pointsPerUnit: decimal.NewFromFloat(pointsPerUnit),
		now:           now,
	}
}

// TopUp opens a PENDING order for amount and returns it with the gateway
// checkout details. Points are only credited by HandleNotification.
func (s *Service) TopUp(ctx context.Context, studentID uint, amount decimal.Decimal) (*models.PaymentOrder, error) {
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(0)) {
		return nil, apperrors.InvalidInput("Amount must be a positive whole number!")
	}

	db := s.db.WithContext(ctx)
	student, err := loadUser(db, studentID, models.RoleStudent, "Student")
	if err != nil {
		return nil, err
	}

	order := models.PaymentOrder{
		StudentID:      studentID,
		OrderID:        "TOPUP-" + uuid.NewString(),
		Amount:         amount,
		Points:         amount.Mul(s.pointsPerUnit).Round(2),
		Status:         models.PaymentStatusPending,
		PaymentGateway: s.gateway.Name(),
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, apperrors.TransactionFailed("create payment order", err)
	}

	checkout, err := s.gateway.CreateOrder(ctx, Order{
		OrderID: order.OrderID,
		Amount:  amount,
		Name:    student.Name,
		Email:   student.Email,
		Mobile:  student.Mobile,
		Item:    fmt.Sprintf("%s reward points", order.Points),
	})
	if err != nil {
		if uerr := db.Model(&order).Update("status", models.PaymentStatusFailed).Error; uerr != nil {
			utils.LogError("marking top-up %s failed: %v", order.OrderID, uerr)
		}
		return nil, apperrors.TransactionFailed("create gateway order", err)
	}

	order.GatewayToken = checkout.Token
	order.RedirectURL = checkout.RedirectURL
	if err := db.Model(&order).Updates(map[string]interface{}{
		"gateway_token": checkout.Token,
		"redirect_url":  checkout.RedirectURL,
	}).Error; err != nil {
		return nil, apperrors.TransactionFailed("store checkout", err)
	}

	utils.LogPurchase("student %d opened top-up %s for %s", studentID, order.OrderID, amount)
	return &order, nil
}

// HandleNotification applies a gateway callback. A PENDING order moves to
// PAID exactly once and only that transition credits points; replays of the
// same callback are no-ops.
func (s *Service) HandleNotification(ctx context.Context, n Notification) (*models.PaymentOrder, error) {
	if err := s.gateway.VerifyNotification(n); err != nil {
		return nil, apperrors.Unauthorized("Invalid payment signature!")
	}

	var (
		order    models.PaymentOrder
		credited bool
		student  *models.User
		points   decimal.Decimal
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("order_id = ?", n.OrderID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Payment order")
		}
		if err != nil {
			return apperrors.TransactionFailed("load payment order", err)
		}

		if gross, err := decimal.NewFromString(n.GrossAmount); err != nil || !gross.Equal(order.Amount) {
			return apperrors.InvalidInput("Gross amount does not match the order!")
		}

		switch outcomeOf(n) {
		case outcomePaid:
			paidAt := s.now()
			res := tx.Model(&models.PaymentOrder{}).
				Where("id = ? AND status = ?", order.ID, models.PaymentStatusPending).
				Updates(map[string]interface{}{
					"status":       models.PaymentStatusPaid,
					"payment_type": n.PaymentType,
					"paid_at":      paidAt,
				})
			if res.Error != nil {
				return apperrors.TransactionFailed("mark order paid", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil
			}
			points, err = ledger.CreditPoints(tx, order.StudentID, order.Points, ledger.Entry{
				Reason:        fmt.Sprintf("Top-up %s", order.OrderID),
				ReferenceType: models.ReferencePayment,
				ReferenceID:   order.ID,
			})
			if err != nil {
				return err
			}
			// the order is settled even if the student was deactivated after paying
			student = &models.User{}
			if err := tx.First(student, order.StudentID).Error; err != nil {
				return apperrors.TransactionFailed("load paying student", err)
			}
			credited = true
			order.Status = models.PaymentStatusPaid
			order.PaymentType = n.PaymentType
			order.PaidAt = &paidAt

		case outcomeFailed:
			res := tx.Model(&models.PaymentOrder{}).
				Where("id = ? AND status = ?", order.ID, models.PaymentStatusPending).
				Update("status", models.PaymentStatusFailed)
			if res.Error != nil {
				return apperrors.TransactionFailed("mark order failed", res.Error)
			}
			if res.RowsAffected > 0 {
				order.Status = models.PaymentStatusFailed
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap("payment notification", err)
	}

	if credited {
		utils.LogPurchase("order %s paid, credited %s points to student %d", order.OrderID, order.Points, order.StudentID)
		notify.Dispatch(s.notifier, notify.TopUpEmail(student.Email, student.Name, points.String()))
	}
	return &order, nil
}

// Orders lists a student's top-up orders, newest first.
func (s *Service) Orders(ctx context.Context, studentID uint, limit, offset int) ([]models.PaymentOrder, int64, error) {
	var (
		rows  []models.PaymentOrder
		total int64
	)
	q := s.db.WithContext(ctx).Model(&models.PaymentOrder{}).Where("student_id = ?", studentID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.TransactionFailed("count payment orders", err)
	}
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperrors.TransactionFailed("list payment orders", err)
	}
	return rows, total, nil
}

func loadUser(tx *gorm.DB, id uint, role, what string) (*models.User, error) {
	var user models.User
	err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound(what)
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load user", err)
	}
	if user.Role != role || !user.IsActive {
		return nil, apperrors.Unauthorized(fmt.Sprintf("Only active %s accounts can do this!", role))
	}
	return &user, nil
}
