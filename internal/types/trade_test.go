package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

func TestTradeMarkFilled(t *testing.T) {
	trade := Trade{
		ID:        "t1",
		Symbol:    "AAPL",
		Side:      SideBuy,
		Quantity:  10,
		Price:     150.0,
		Timestamp: time.Now(),
		Status:    TradeStatusPending,
	}

	assert.NoError(t, trade.MarkFilled())
	assert.Equal(t, TradeStatusFilled, trade.Status)
	assert.True(t, trade.IsFilled())

	// A settled trade must never transition again.
	err := trade.MarkFilled()
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTradeAlreadySettled))

	err = trade.MarkRejected("too late")
	assert.Error(t, err)
	assert.Equal(t, TradeStatusFilled, trade.Status)
}

func TestTradeMarkRejected(t *testing.T) {
	trade := Trade{
		ID:     "t2",
		Symbol: "TSLA",
		Side:   SideSell,
		Status: TradeStatusPending,
	}

	assert.NoError(t, trade.MarkRejected("insufficient position"))
	assert.Equal(t, TradeStatusRejected, trade.Status)
	assert.Equal(t, "insufficient position", trade.Notes)
	assert.False(t, trade.IsFilled())

	err := trade.MarkRejected("again")
	assert.Error(t, err)
}
