package superAdminController

import (
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/payments"
	"eduverse/quiz"
	"eduverse/utils"
	quizValidator "eduverse/validators/quiz"
	walletValidator "eduverse/validators/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB       *gorm.DB
	Payments *payments.Service
	Quizzes  *quiz.Engine
}

func New(db *gorm.DB, svc *payments.Service, quizzes *quiz.Engine) *AdminController {
	return &AdminController{DB: db, Payments: svc, Quizzes: quizzes}
}

func (h *AdminController) UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedHistory").(*walletValidator.HistoryQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page, limit, offset := utils.Pagination(reqData.Page, reqData.Limit)
	db := h.DB.WithContext(c.UserContext())

	var (
		users []models.User
		total int64
	)
	q := db.Model(&models.User{}).Where("is_deleted = ? AND role != ?", false, models.RoleAdmin)
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to count users!", nil)
	}
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list fetched.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// PayoutTeacher settles part of a teacher's earned balance.
func (h *AdminController) PayoutTeacher(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)
	teacherID := c.Locals("id").(uint)
	reqData, ok := c.Locals("validatedPayout").(*walletValidator.PayoutRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := h.Payments.Payout(c.UserContext(), adminId, teacherID, reqData.Amount, reqData.Reference, reqData.Note)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payout recorded successfully.", result)
}

// CorrectLeaderboard applies an admin score correction. It only changes the
// board when the new score beats the recorded one.
func (h *AdminController) CorrectLeaderboard(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)
	quizID := c.Locals("id").(uint)
	reqData, ok := c.Locals("validatedCorrection").(*quizValidator.CorrectLeaderboardRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	applied, err := h.Quizzes.CorrectLeaderboard(c.UserContext(), adminId, quizID, reqData.StudentID, reqData.Marks, reqData.TimeTaken)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	standings, err := h.Quizzes.Leaderboard(c.UserContext(), quizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Leaderboard updated."
	if !applied {
		message = "Existing score is as good or better; leaderboard unchanged."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"applied":     applied,
		"leaderboard": standings,
	})
}
