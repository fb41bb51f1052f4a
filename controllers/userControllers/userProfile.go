package userController

import (
	"eduverse/enrollment"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/utils"
	userValidator "eduverse/validators/userValidator"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB          *gorm.DB
	Enrollments *enrollment.Engine
}

func New(db *gorm.DB, enrollments *enrollment.Engine) *UserController {
	return &UserController{DB: db, Enrollments: enrollments}
}

func (h *UserController) GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := h.DB.WithContext(c.UserContext()).
		Where("id = ? AND is_deleted = ?", userId, false).
		First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

func (h *UserController) UpdateProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.DB.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(reqData.Name); name != "" {
		updates["name"] = name
	}
	if reqData.Mobile != "" && reqData.Mobile != user.Mobile {
		updates["mobile"] = reqData.Mobile
		updates["is_mobile_verified"] = false
	}
	if reqData.Bio != "" {
		updates["bio"] = reqData.Bio
	}
	if reqData.ProfileImage != "" {
		updates["profile_image"] = reqData.ProfileImage
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		utils.LogError("updating profile of user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

func (h *UserController) GetEnrollments(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := h.Enrollments.Enrollments(c.UserContext(), userId)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", enrollments)
}
