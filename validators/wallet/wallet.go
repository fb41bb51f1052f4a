package walletValidator

import (
	"eduverse/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PayoutRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" validate:"required,max=100"`
	Note      string          `json:"note" validate:"omitempty,max=1000"`
}

type HistoryQuery struct {
	validators.Pagination
}

func TopUp() fiber.Handler {
	return validators.Body[TopUpRequest]("validatedTopUp")
}

func Payout() fiber.Handler {
	return validators.Body[PayoutRequest]("validatedPayout")
}

func History() fiber.Handler {
	return validators.Query[HistoryQuery]("validatedHistory")
}
