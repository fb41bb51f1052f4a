package middleware

import (
	"eduverse/apperrors"
	"eduverse/utils"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse writes err with the status of its kind. Unexpected errors are
// logged and hidden behind a generic message.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		utils.LogError("%s %s: %+v", c.Method(), c.Path(), err)
	}
	return JsonResponse(c, status, false, apperrors.Message(err), nil)
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindUnauthorized:
		return fiber.StatusForbidden
	case apperrors.KindInsufficientFunds:
		return fiber.StatusPaymentRequired
	case apperrors.KindAlreadyExists, apperrors.KindAlreadyEnrolled, apperrors.KindAlreadyAttempted:
		return fiber.StatusConflict
	case apperrors.KindInvalidInput:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
