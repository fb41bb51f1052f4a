// Package payments sells reward points through a payment gateway and settles
// teacher balances.
package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// Order is what the gateway is asked to charge.
type Order struct {
	OrderID string
	Amount  decimal.Decimal
	Name    string
	Email   string
	Mobile  string
	Item    string
}

// Checkout is where the student completes the payment.
type Checkout struct {
	Token       string
	RedirectURL string
}

// Notification is the gateway's asynchronous status callback.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, o Order) (*Checkout, error)
	VerifyNotification(n Notification) error
}

// outcome of a notification for our order state machine
type outcome int

const (
	outcomePending outcome = iota
	outcomePaid
	outcomeFailed
)

func outcomeOf(n Notification) outcome {
	switch n.TransactionStatus {
	case "settlement":
		return outcomePaid
	case "capture":
		if n.FraudStatus == "" || n.FraudStatus == "accept" {
			return outcomePaid
		}
		if n.FraudStatus == "deny" {
			return outcomeFailed
		}
		return outcomePending
	case "deny", "cancel", "expire", "failure":
		return outcomeFailed
	}
	return outcomePending
}
