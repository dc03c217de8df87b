package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSignal, "signal missing symbol")
	assert.Equal(t, ErrCodeInvalidSignal, err.Code)
	assert.Equal(t, "[102] signal missing symbol", err.Error())
	assert.Nil(t, err.Cause)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeQuoteNotFound, "no quote for %s", "AAPL")
	assert.Equal(t, "[200] no quote for AAPL", err.Error())
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeMarketDataUnavailable, "fetch failed", cause)

	assert.Equal(t, "[201] fetch failed: connection refused", err.Error())
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, Is(err, cause))
}

func TestGetCode(t *testing.T) {
	err := New(ErrCodeInsufficientCash, "not enough cash")
	assert.Equal(t, ErrCodeInsufficientCash, GetCode(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, ErrCodeInsufficientCash, GetCode(wrapped))

	plain := fmt.Errorf("plain error")
	assert.Equal(t, ErrCodeUnknown, GetCode(plain))
}

func TestHasCode(t *testing.T) {
	err := New(ErrCodeInsufficientPosition, "no shares held")
	assert.True(t, HasCode(err, ErrCodeInsufficientPosition))
	assert.False(t, HasCode(err, ErrCodeInsufficientCash))
}
