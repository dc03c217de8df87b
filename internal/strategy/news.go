package strategy

import (
	"context"
	"fmt"
	"slices"

	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// newsConfidence scores a news item against the symbol's current price
// action: base impact, plus a bonus when sentiment agrees with the move, a
// recency factor decaying linearly to zero over 24 hours, and a bonus for
// credible sources. Clamped to [0,1].
func (g *Generator) newsConfidence(item types.NewsItem, q types.Quote) float64 {
	confidence := item.ImpactScore

	if (item.Sentiment == types.SentimentBullish && q.ChangePercent > 0) ||
		(item.Sentiment == types.SentimentBearish && q.ChangePercent < 0) {
		confidence += 0.2
	}

	hoursOld := g.now().Sub(item.PublishedAt).Hours()
	confidence += max(0, 1-hoursOld/24)

	if slices.Contains(g.cfg.CredibleSources, item.Source) {
		confidence += 0.1
	}

	return clamp01(confidence)
}

// newsSignals emits a signal for every high-impact news item that names at
// least one symbol. Each symbol is scored against its live quote; symbols
// without a quote are skipped.
func (g *Generator) newsSignals(ctx context.Context, items []types.NewsItem) []types.Signal {
	signals := make([]types.Signal, 0, len(items))

	for _, item := range items {
		if item.ImpactScore < g.cfg.MinNewsImpact {
			continue
		}

		if len(item.Symbols) == 0 {
			// General market news carries no tradable symbol.
			continue
		}

		for _, symbol := range item.Symbols {
			quote, err := g.source.GetQuote(ctx, symbol)
			if err != nil || quote.IsNone() {
				continue
			}

			q := quote.Unwrap()

			confidence := g.newsConfidence(item, q)
			if confidence <= g.cfg.MinConfidence {
				continue
			}

			side := types.SideSell
			priceTarget := q.Price * (1 - g.cfg.ProfitTarget)

			if item.Sentiment == types.SentimentBullish {
				side = types.SideBuy
				priceTarget = q.Price * (1 + g.cfg.ProfitTarget)
			}

			signals = append(signals, types.Signal{
				Symbol:      symbol,
				Side:        side,
				Confidence:  confidence,
				PriceTarget: priceTarget,
				StopLoss:    q.Price * (1 - g.cfg.StopLoss),
				Reasoning:   fmt.Sprintf("News signal: %s", truncate(item.Title, 50)),
				Timestamp:   g.now(),
				News:        []types.NewsItem{item},
			})
		}
	}

	return signals
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
