package walletController

import (
	"eduverse/ledger"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/payments"
	"eduverse/utils"
	walletValidator "eduverse/validators/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WalletController struct {
	DB       *gorm.DB
	Payments *payments.Service
}

func New(db *gorm.DB, svc *payments.Service) *WalletController {
	return &WalletController{DB: db, Payments: svc}
}

// GetWalletBalance returns reward points for students and the earned balance
// for teachers.
func (h *WalletController) GetWalletBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := h.DB.WithContext(c.UserContext()).
		Where("id = ? AND is_deleted = ?", userId, false).
		First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"role":          user.Role,
		"reward_points": user.RewardPoints,
		"balance":       user.Balance,
	})
}

// GetWalletHistory pages through the caller's ledger: reward history for
// students, balance history for everyone else.
func (h *WalletController) GetWalletHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	reqData, ok := c.Locals("validatedHistory").(*walletValidator.HistoryQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page, limit, offset := utils.Pagination(reqData.Page, reqData.Limit)

	var (
		rows  interface{}
		total int64
		err   error
	)
	if role == models.RoleStudent {
		rows, total, err = ledger.RewardHistory(c.UserContext(), h.DB, userId, limit, offset)
	} else {
		rows, total, err = ledger.BalanceHistory(c.UserContext(), h.DB, userId, limit, offset)
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", fiber.Map{
		"history": rows,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// TopUp opens a gateway order for buying reward points.
func (h *WalletController) TopUp(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedTopUp").(*walletValidator.TopUpRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	order, err := h.Payments.TopUp(c.UserContext(), userId, reqData.Amount)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment order created.", order)
}

// PaymentNotify receives the gateway callback. Unknown orders are
// acknowledged so the gateway stops retrying.
func (h *WalletController) PaymentNotify(c *fiber.Ctx) error {
	var notif payments.Notification
	if err := c.BodyParser(&notif); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payload!", nil)
	}

	order, err := h.Payments.HandleNotification(c.UserContext(), notif)
	if err != nil {
		if middleware.StatusOf(err) == fiber.StatusNotFound {
			utils.LogWarn("payment notification for unknown order %s", notif.OrderID)
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Ignored.", nil)
		}
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification processed.", fiber.Map{
		"order_id": order.OrderID,
		"status":   order.Status,
	})
}

func (h *WalletController) GetPaymentOrders(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedHistory").(*walletValidator.HistoryQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page, limit, offset := utils.Pagination(reqData.Page, reqData.Limit)

	orders, total, err := h.Payments.Orders(c.UserContext(), userId, limit, offset)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment orders fetched!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
