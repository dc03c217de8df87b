package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
)

func TestCheckLimitsDailyLoss(t *testing.T) {
	gate := NewGate(0.05, logger.NewNopLogger())

	assert.True(t, gate.CheckLimits(0, 0, 10_000))
	assert.True(t, gate.CheckLimits(-499, -499, 10_000))
	// Exactly at the limit still passes; the comparison is strict.
	assert.True(t, gate.CheckLimits(-500, -500, 10_000))
	assert.False(t, gate.CheckLimits(-500.01, -500.01, 10_000))
}

func TestCheckLimitsZeroToleranceMeansAnyLossPauses(t *testing.T) {
	gate := NewGate(0, logger.NewNopLogger())

	assert.True(t, gate.CheckLimits(0, 0, 10_000))
	assert.False(t, gate.CheckLimits(-0.01, -0.01, 10_000))
	assert.True(t, gate.CheckLimits(25, 25, 10_000))
}

func TestCheckLimitsDrawdown(t *testing.T) {
	gate := NewGate(1.0, logger.NewNopLogger())

	// Daily limit is wide open; only the drawdown breaker can trip.
	assert.True(t, gate.CheckLimits(-4_999, -4_999, 10_000))
	assert.True(t, gate.CheckLimits(-5_000, -5_000, 10_000))
	assert.False(t, gate.CheckLimits(0, -5_000.01, 10_000))
}
