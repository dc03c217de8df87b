package strategy

import (
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// The "RSI" and "MACD" values below are directional stand-ins derived from a
// single quote, not rolling-window indicators. They only encode the sign of
// the move versus the previous close. Swapping in real windowed indicators
// would change trading behavior and is deliberately not done here.

// rsiStandIn returns 60 on an up-move, 40 on a down-move, 50 when the
// previous close is unknown.
func rsiStandIn(q types.Quote) float64 {
	if q.PreviousClose == 0 {
		return 50.0
	}

	if q.Price > q.PreviousClose {
		return 60.0
	}

	return 40.0
}

// macdStandIn returns the fractional move versus the previous close.
func macdStandIn(q types.Quote) float64 {
	if q.PreviousClose == 0 {
		return 0.0
	}

	return (q.Price - q.PreviousClose) / q.PreviousClose
}

// technicalScore sums the stand-in indicator contributions plus a bonus for
// large moves, capped at 1.
func (g *Generator) technicalScore(q types.Quote) float64 {
	rsi := rsiStandIn(q)
	macd := macdStandIn(q)

	var score float64

	// Oversold/overbought bands; unreachable with the stand-in values but
	// kept so the thresholds hold if real RSI is ever wired in.
	if rsi < 30 || rsi > 70 {
		score += 0.3
	}

	if macd != 0 {
		score += 0.2
	}

	if q.ChangePercent > 5 || q.ChangePercent < -5 {
		score += 0.3
	}

	return min(score, 1.0)
}

// technicalSignals emits a signal for quotes whose technical score clears the
// confidence floor. High scores read as strength (BUY), lower passing scores
// as weakness (SELL).
func (g *Generator) technicalSignals(quotes []types.Quote) []types.Signal {
	signals := make([]types.Signal, 0, len(quotes))

	for _, q := range quotes {
		score := g.technicalScore(q)
		if score <= g.cfg.MinConfidence {
			continue
		}

		side := types.SideSell
		if score > 0.8 {
			side = types.SideBuy
		}

		signals = append(signals, types.Signal{
			Symbol:      q.Symbol,
			Side:        side,
			Confidence:  score,
			PriceTarget: q.Price * (1 + g.cfg.ProfitTarget),
			StopLoss:    q.Price * (1 - g.cfg.StopLoss),
			Reasoning:   "Technical analysis signal",
			Timestamp:   g.now(),
			Indicators: map[string]float64{
				"technical_score": score,
				"rsi":             rsiStandIn(q),
				"macd":            macdStandIn(q),
			},
		})
	}

	return signals
}
