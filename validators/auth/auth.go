package authValidator

import (
	"eduverse/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,numeric,min=8,max=15"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func Register() fiber.Handler {
	return validators.Body[RegisterRequest]("validatedUser")
}

func SendOTP() fiber.Handler {
	return validators.Body[SendOTPRequest]("validatedOTP")
}

func VerifyOTP() fiber.Handler {
	return validators.Body[VerifyOTPRequest]("validatedOTP")
}

func Login() fiber.Handler {
	return validators.Body[LoginRequest]("validatedUser")
}

func LoginHistory() fiber.Handler {
	return validators.Query[validators.Pagination]("validatedLoginHistory")
}
