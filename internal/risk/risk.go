// Package risk enforces the loss limits that pause trading.
package risk

import (
	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
)

// DefaultMaxDrawdownFraction is the fixed total-drawdown circuit breaker:
// trading pauses once half the initial capital is gone.
const DefaultMaxDrawdownFraction = 0.5

// Gate checks portfolio P&L against the configured loss limits before each
// trading cycle. It is stateless; the caller owns the resulting pause.
type Gate struct {
	// maxDailyLossFraction of initial capital tolerated as a daily loss.
	// Zero means any daily loss at all pauses trading.
	maxDailyLossFraction float64
	maxDrawdownFraction  float64

	log *logger.Logger
}

// NewGate creates a gate with the given daily loss tolerance and the default
// drawdown breaker.
func NewGate(maxDailyLossFraction float64, log *logger.Logger) *Gate {
	return &Gate{
		maxDailyLossFraction: maxDailyLossFraction,
		maxDrawdownFraction:  DefaultMaxDrawdownFraction,
		log:                  log,
	}
}

// CheckLimits reports whether trading may continue. Both limits are strict:
// a daily P&L sitting exactly at the limit still passes.
func (g *Gate) CheckLimits(dailyPnL, totalPnL, initialCapital float64) bool {
	if dailyPnL < -initialCapital*g.maxDailyLossFraction {
		g.log.Warn("Daily loss limit breached",
			zap.Float64("daily_pnl", dailyPnL),
			zap.Float64("limit", -initialCapital*g.maxDailyLossFraction),
		)

		return false
	}

	if totalPnL < -initialCapital*g.maxDrawdownFraction {
		g.log.Warn("Total drawdown limit breached",
			zap.Float64("total_pnl", totalPnL),
			zap.Float64("limit", -initialCapital*g.maxDrawdownFraction),
		)

		return false
	}

	return true
}
