package userValidator

import (
	"eduverse/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Name         string `json:"name" validate:"omitempty,min=3,max=100"`
	Mobile       string `json:"mobile" validate:"omitempty,numeric,min=8,max=15"`
	Bio          string `json:"bio" validate:"omitempty,max=1000"`
	ProfileImage string `json:"profile_image" validate:"omitempty,url"`
}

func UpdateProfile() fiber.Handler {
	return validators.Body[UpdateProfileRequest]("validatedProfile")
}
