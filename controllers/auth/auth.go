package authController

import (
	"context"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/notify"
	"eduverse/utils"
	"eduverse/validators"
	authValidator "eduverse/validators/auth"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpTTL          = 5 * time.Minute
	maxFailedLogins = 3
	loginBlock      = 5 * time.Minute
)

type AuthController struct {
	DB        *gorm.DB
	Notifier  notify.Notifier
	SMS       *notify.SMSSender
	SaltRound int
	now       func() time.Time
}

func New(db *gorm.DB, notifier notify.Notifier, sms *notify.SMSSender, saltRound int) *AuthController {
	return &AuthController{DB: db, Notifier: notifier, SMS: sms, SaltRound: saltRound, now: time.Now}
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.DB.WithContext(c.UserContext())
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	if err := db.Where("email = ?", email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	cost := h.SaltRound
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), cost)
	if err != nil {
		utils.LogError("hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleStudent
	}

	newUser := models.User{
		Name:     strings.TrimSpace(reqData.Name),
		Email:    email,
		Mobile:   reqData.Mobile,
		Role:     role,
		Password: string(hashedPassword),
	}
	if err := db.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		utils.LogError("saving user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	if err := h.issueOTP(c.UserContext(), &newUser, "Email Verification OTP"); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully. Verify the OTP sent to your email.", newUser)
}

func (h *AuthController) SendOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOTP").(*authValidator.SendOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := h.DB.WithContext(c.UserContext()).
		Where("email = ? AND is_deleted = ?", strings.ToLower(reqData.Email), false).
		First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already verified!", nil)
	}

	if err := h.issueOTP(c.UserContext(), &user, "Email Verification OTP"); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

// issueOTP stores a fresh code and sends it by e-mail, and by SMS when the
// user has a mobile number and a gateway is configured.
func (h *AuthController) issueOTP(ctx context.Context, user *models.User, description string) error {
	code := utils.GenerateOTP()
	otpRecord := models.OTP{
		UserID:      user.ID,
		Email:       user.Email,
		Mobile:      user.Mobile,
		Code:        code,
		ExpiresAt:   h.now().Add(otpTTL),
		Description: description,
	}
	if err := h.DB.WithContext(ctx).Create(&otpRecord).Error; err != nil {
		utils.LogError("saving OTP for user %d: %v", user.ID, err)
		return err
	}

	notify.Dispatch(h.Notifier, notify.OTPEmail(user.Email, user.Name, code))
	if user.Mobile != "" && h.SMS.Enabled() {
		go func(mobile string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.SMS.SendOTP(ctx, mobile, code); err != nil {
				utils.LogError("sending OTP SMS to %s: %v", mobile, err)
			}
		}(user.Mobile)
	}
	return nil
}

func (h *AuthController) VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOTP").(*authValidator.VerifyOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.DB.WithContext(c.UserContext())
	email := strings.ToLower(reqData.Email)

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var otpRecord models.OTP
	if err := db.Where("user_id = ? AND code = ? AND is_used = ? AND is_deleted = ?", user.ID, reqData.Code, false, false).
		Order("id DESC").
		First(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP or OTP expired!", nil)
	}
	if otpRecord.ExpiresAt.Before(h.now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&otpRecord).Update("is_used", true).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"is_email_verified": true}
		if user.Mobile != "" {
			updates["is_mobile_verified"] = true
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		utils.LogError("verifying OTP for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user verification status!", nil)
	}

	notify.Dispatch(h.Notifier, notify.WelcomeEmail(user.Email, user.Name))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully!", nil)
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.DB.WithContext(c.UserContext())
	now := h.now()

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", strings.ToLower(reqData.Email), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}
	if !user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Email not verified!", nil)
	}
	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account is inactive!", nil)
	}
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		updates := map[string]interface{}{"failed_login_attempts": gorm.Expr("failed_login_attempts + 1")}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["failed_login_attempts"] = 0
			updates["blocked_until"] = now.Add(loginBlock)
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			utils.LogError("recording failed login for user %d: %v", user.ID, err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"last_login":            now,
		"failed_login_attempts": 0,
		"blocked_until":         nil,
	}).Error; err != nil {
		utils.LogError("saving last login time: %v", err)
	}
	user.LastLogin = &now

	device := c.Get(fiber.HeaderUserAgent)
	if len(device) > 255 {
		device = device[:255]
	}
	if err := db.Create(&models.LoginHistory{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    device,
		CreatedAt: now,
	}).Error; err != nil {
		utils.LogError("saving login history for user %d: %v", user.ID, err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	utils.LogInfo("user %d logged in from %s", user.ID, c.IP())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthController) LoginHistoryList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedLoginHistory").(*validators.Pagination)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page, limit, offset := utils.Pagination(reqData.Page, reqData.Limit)
	db := h.DB.WithContext(c.UserContext())

	var history []models.LoginHistory
	if err := db.Where("user_id = ?", userId).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	var total int64
	if err := db.Model(&models.LoginHistory{}).Where("user_id = ?", userId).Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to count login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"history": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
