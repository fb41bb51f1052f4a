// Package apperrors defines the error kinds returned by the purchase, ledger
// and quiz workflows.
package apperrors

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an error for callers. HTTP handlers map it to a status.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindAlreadyExists     Kind = "ALREADY_EXISTS"
	KindAlreadyEnrolled   Kind = "ALREADY_ENROLLED"
	KindAlreadyAttempted  Kind = "ALREADY_ATTEMPTED"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindTransactionFailed Kind = "TRANSACTION_FAILED"
)

// Error carries a Kind, a client-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so errors.Is(err, ErrNotFound)
// works for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrAlreadyExists     = &Error{Kind: KindAlreadyExists}
	ErrAlreadyEnrolled   = &Error{Kind: KindAlreadyEnrolled}
	ErrAlreadyAttempted  = &Error{Kind: KindAlreadyAttempted}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrTransactionFailed = &Error{Kind: KindTransactionFailed}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NotFound(what string) *Error {
	return New(KindNotFound, what+" not found")
}

func Unauthorized(msg string) *Error {
	return New(KindUnauthorized, msg)
}

func InsufficientFunds(msg string) *Error {
	return New(KindInsufficientFunds, msg)
}

func AlreadyExists(msg string) *Error {
	return New(KindAlreadyExists, msg)
}

func AlreadyEnrolled(msg string) *Error {
	return New(KindAlreadyEnrolled, msg)
}

func AlreadyAttempted(msg string) *Error {
	return New(KindAlreadyAttempted, msg)
}

func InvalidInput(msg string) *Error {
	return New(KindInvalidInput, msg)
}

// InvalidSubmission is an InvalidInput raised while grading answers.
func InvalidSubmission(msg string) *Error {
	return New(KindInvalidInput, "invalid submission: "+msg)
}

// TransactionFailed wraps a storage error raised mid-transaction. The stack
// from pkg/errors is kept for the error reporter.
func TransactionFailed(op string, err error) *Error {
	return &Error{
		Kind:    KindTransactionFailed,
		Message: op + " failed",
		Err:     pkgerrors.WithStack(err),
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindTransactionFailed for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransactionFailed
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong!"
}

// Wrap keeps typed errors as they are and turns anything else into a
// TransactionFailed for op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return TransactionFailed(op, err)
}
