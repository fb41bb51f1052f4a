package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"eduverse/apperrors"
)

func TestKindOfWalksWrappedChain(t *testing.T) {
	err := fmt.Errorf("purchase: %w", apperrors.InsufficientFunds("Insufficient reward points!"))

	assert.Equal(t, apperrors.KindInsufficientFunds, apperrors.KindOf(err))
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "Insufficient reward points!", apperrors.Message(err))
}

func TestWrapKeepsTypedErrors(t *testing.T) {
	typed := apperrors.NotFound("Course")
	assert.Same(t, typed, apperrors.Wrap("purchase course", typed))

	wrapped := apperrors.Wrap("purchase course", errors.New("disk full"))
	assert.Equal(t, apperrors.KindTransactionFailed, apperrors.KindOf(wrapped))
	assert.Equal(t, "purchase course failed", apperrors.Message(wrapped))
	assert.Nil(t, apperrors.Wrap("noop", nil))
}

func TestForeignErrorsAreTransactionFailures(t *testing.T) {
	assert.Equal(t, apperrors.KindTransactionFailed, apperrors.KindOf(errors.New("boom")))
	assert.Equal(t, "Something went wrong!", apperrors.Message(errors.New("boom")))
}
