package strategy

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/market"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

// Generator merges the momentum, news and technical heuristics into one
// ranked candidate list, bounded by the remaining daily trade budget.
type Generator struct {
	source market.Source
	cfg    Config
	log    *logger.Logger

	mu          sync.Mutex
	dailyTrades int
	lastReset   time.Time
	now         func() time.Time
}

// NewGenerator creates a signal generator reading from the given source.
func NewGenerator(source market.Source, cfg Config, log *logger.Logger) *Generator {
	now := time.Now

	return &Generator{
		source:      source,
		cfg:         cfg,
		log:         log,
		dailyTrades: 0,
		lastReset:   now(),
		now:         now,
	}
}

// Generate produces the ranked signals for this cycle. Symbols in
// openSymbols are excluded; the result is truncated to the remaining daily
// trade budget. A fetch failure surfaces as an error so the caller can log
// it and continue the cycle with no signals.
func (g *Generator) Generate(ctx context.Context, openSymbols []string) ([]types.Signal, error) {
	g.resetDailyCounter()

	if g.dailyTrades >= g.cfg.MaxDailyTrades {
		g.log.Info("Maximum daily trades reached", zap.Int("daily_trades", g.dailyTrades))

		return nil, nil
	}

	movers, err := g.source.GetTopMovers(ctx, g.cfg.TopMoversLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataUnavailable, "failed to fetch top movers", err)
	}

	news, err := g.source.GetNews(ctx, nil, g.cfg.NewsLookbackHours)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNewsUnavailable, "failed to fetch news", err)
	}

	signals := g.momentumSignals(movers)
	signals = append(signals, g.newsSignals(ctx, news)...)
	signals = append(signals, g.technicalSignals(movers)...)

	filtered := g.filterSignals(signals, openSymbols)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})

	if budget := g.cfg.MaxDailyTrades - g.dailyTrades; len(filtered) > budget {
		filtered = filtered[:budget]
	}

	g.log.Debug("Signals generated",
		zap.Int("candidates", len(signals)),
		zap.Int("selected", len(filtered)),
	)

	return filtered, nil
}

// filterSignals drops signals for held symbols, signals below the confidence
// floor, and signals whose price target runs away past twice the stop price.
func (g *Generator) filterSignals(signals []types.Signal, openSymbols []string) []types.Signal {
	held := make(map[string]struct{}, len(openSymbols))
	for _, symbol := range openSymbols {
		held[symbol] = struct{}{}
	}

	filtered := make([]types.Signal, 0, len(signals))

	for _, sig := range signals {
		if _, ok := held[sig.Symbol]; ok {
			continue
		}

		if sig.Confidence < g.cfg.MinConfidence {
			continue
		}

		if sig.PriceTarget > sig.StopLoss*2 {
			continue
		}

		filtered = append(filtered, sig)
	}

	return filtered
}

// ValidateSignal re-checks a signal against a live quote immediately before
// execution; signals are generated from slightly stale batch data, so the
// price may already have run past the target or liquidity may have dried up.
func (g *Generator) ValidateSignal(ctx context.Context, sig types.Signal) bool {
	if err := sig.Validate(); err != nil {
		g.log.Warn("Signal failed structural validation", zap.String("symbol", sig.Symbol), zap.Error(err))

		return false
	}

	quote, err := g.source.GetQuote(ctx, sig.Symbol)
	if err != nil || quote.IsNone() {
		return false
	}

	q := quote.Unwrap()

	if sig.Side == types.SideBuy && q.Price > sig.PriceTarget {
		g.log.Info("Price already exceeds target",
			zap.String("symbol", sig.Symbol),
			zap.Float64("price", q.Price),
			zap.Float64("target", sig.PriceTarget),
		)

		return false
	}

	if sig.Side == types.SideSell && q.Price < sig.PriceTarget {
		g.log.Info("Price already below target",
			zap.String("symbol", sig.Symbol),
			zap.Float64("price", q.Price),
			zap.Float64("target", sig.PriceTarget),
		)

		return false
	}

	if q.Volume < g.cfg.MinVolume {
		g.log.Info("Insufficient volume",
			zap.String("symbol", sig.Symbol),
			zap.Int64("volume", q.Volume),
		)

		return false
	}

	return true
}

// RecordTrade counts a filled trade against the daily budget.
func (g *Generator) RecordTrade() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dailyTrades++
}

// DailyTrades returns the number of trades counted today.
func (g *Generator) DailyTrades() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.dailyTrades
}

// ResetDaily zeroes the daily trade counter. The loop calls it on the first
// cycle of a new day, before risk limits are evaluated; Generate also resets
// lazily so a standalone generator stays correct.
func (g *Generator) ResetDaily() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dailyTrades = 0
	g.lastReset = g.now()
}

func (g *Generator) resetDailyCounter() {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.now()
	if today.Year() != g.lastReset.Year() || today.YearDay() != g.lastReset.YearDay() {
		g.dailyTrades = 0
		g.lastReset = today
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
