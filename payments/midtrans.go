package payments

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Midtrans creates Snap transactions and checks notification signatures.
type Midtrans struct {
	serverKey string
	client    snap.Client
}

func NewMidtrans(serverKey string, production bool) *Midtrans {
	m := &Midtrans{serverKey: serverKey}
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m.client.New(serverKey, env)
	return m
}

func (m *Midtrans) Name() string { return "midtrans" }

func (m *Midtrans) CreateOrder(_ context.Context, o Order) (*Checkout, error) {
	gross := o.Amount.Round(0).IntPart()
	if gross <= 0 {
		return nil, errors.New("invalid gross amount")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: o.Name,
			Email: o.Email,
			Phone: o.Mobile,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    o.OrderID,
			Name:  truncate(o.Item, 50),
			Price: gross,
			Qty:   1,
		}},
	}

	resp, merr := m.client.CreateTransaction(req)
	if merr != nil {
		return nil, merr
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifyNotification checks SHA512(order_id + status_code + gross_amount + server_key).
func (m *Midtrans) VerifyNotification(n Notification) error {
	want := strings.ToLower(n.SignatureKey)
	if want == "" || want != Signature(n.OrderID, n.StatusCode, n.GrossAmount, m.serverKey) {
		return ErrInvalidSignature
	}
	return nil
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
