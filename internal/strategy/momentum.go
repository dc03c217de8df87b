package strategy

import (
	"fmt"

	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// momentumScore combines normalized price change, volume and intraday range
// into a single [0,1] score.
func (g *Generator) momentumScore(q types.Quote) float64 {
	changeFactor := clamp01(abs(q.ChangePercent) / g.cfg.ChangeNormalizePercent)
	volumeFactor := clamp01(float64(q.Volume) / g.cfg.VolumeNormalizeShares)
	volatilityFactor := clamp01(q.IntradayRange() * 10)

	score := changeFactor*g.cfg.MomentumChangeWeight +
		volumeFactor*g.cfg.MomentumVolumeWeight +
		volatilityFactor*g.cfg.MomentumVolatilityWeight

	return clamp01(score)
}

// momentumSignals emits a signal for every quote moving harder than the
// momentum threshold with enough volume behind it.
func (g *Generator) momentumSignals(quotes []types.Quote) []types.Signal {
	signals := make([]types.Signal, 0, len(quotes))

	for _, q := range quotes {
		if abs(q.ChangePercent) < g.cfg.MomentumThreshold*100 {
			continue
		}

		if q.Volume < g.cfg.MinVolume {
			continue
		}

		score := g.momentumScore(q)
		if score <= g.cfg.MinConfidence {
			continue
		}

		side := types.SideBuy
		if q.ChangePercent < 0 {
			side = types.SideSell
		}

		signals = append(signals, types.Signal{
			Symbol:     q.Symbol,
			Side:       side,
			Confidence: score,
			// Target half of the observed move continuing.
			PriceTarget: q.Price * (1 + (q.ChangePercent/100)*0.5),
			StopLoss:    q.Price * (1 - g.cfg.StopLoss),
			Reasoning:   fmt.Sprintf("Momentum signal: %.2f%% change with %d volume", q.ChangePercent, q.Volume),
			Timestamp:   g.now(),
			Indicators: map[string]float64{
				"momentum_score": score,
				"price_change":   q.ChangePercent,
				"volume":         float64(q.Volume),
			},
		})
	}

	return signals
}
