package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPositionReprice(t *testing.T) {
	now := time.Now()
	pos := Position{
		Symbol:       "AAPL",
		Quantity:     10,
		AveragePrice: 150.0,
		CurrentPrice: 150.0,
		MarketValue:  1500.0,
	}

	pos.Reprice(147.0, now)

	assert.InDelta(t, 147.0, pos.CurrentPrice, 1e-9)
	assert.InDelta(t, 1470.0, pos.MarketValue, 1e-9)
	assert.InDelta(t, -30.0, pos.UnrealizedPnL, 1e-9)
	assert.Equal(t, now, pos.LastUpdated)

	pos.Reprice(157.5, now)
	assert.InDelta(t, 75.0, pos.UnrealizedPnL, 1e-9)
}

func TestQuoteIntradayRange(t *testing.T) {
	q := Quote{Symbol: "MSFT", Price: 300, High: 306, Low: 297, Open: 300}
	assert.InDelta(t, 0.03, q.IntradayRange(), 1e-9)

	q.Open = 0
	assert.Zero(t, q.IntradayRange())
}

func TestSignalValidate(t *testing.T) {
	sig := Signal{
		Symbol:      "AAPL",
		Side:        SideBuy,
		Confidence:  0.8,
		PriceTarget: 155.0,
		StopLoss:    147.0,
		Timestamp:   time.Now(),
	}
	assert.NoError(t, sig.Validate())

	sig.Side = "HOLD"
	assert.Error(t, sig.Validate())

	sig.Side = SideSell
	sig.PriceTarget = 0
	assert.Error(t, sig.Validate())
}
