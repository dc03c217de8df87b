package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/market"
	"github.com/ajseidenfrau/NVSTWZ/internal/portfolio"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// Monitor watches open positions and closes them when price crosses the
// stop-loss or profit-target band around the average entry price.
type Monitor struct {
	ledger   *portfolio.Ledger
	executor *portfolio.Executor
	source   market.Source

	// Fractions of the average entry price; a position exits at
	// avg*(1-stopLoss) or avg*(1+profitTarget), both inclusive.
	stopLoss     float64
	profitTarget float64

	log *logger.Logger
}

// NewMonitor creates a position monitor with the given exit bands.
func NewMonitor(ledger *portfolio.Ledger, executor *portfolio.Executor, source market.Source, stopLoss, profitTarget float64, log *logger.Logger) *Monitor {
	return &Monitor{
		ledger:       ledger,
		executor:     executor,
		source:       source,
		stopLoss:     stopLoss,
		profitTarget: profitTarget,
		log:          log,
	}
}

// CheckPositions evaluates every open position against its exit bands and
// sells the full quantity of any that crossed one. The stop-loss is checked
// before the profit target. Returns the trades it executed.
func (m *Monitor) CheckPositions(ctx context.Context, at time.Time) []types.Trade {
	var trades []types.Trade

	for _, pos := range m.ledger.Positions() {
		quote, err := m.source.GetQuote(ctx, pos.Symbol)
		if err != nil {
			m.log.Warn("Failed to fetch quote for monitoring", zap.String("symbol", pos.Symbol), zap.Error(err))

			continue
		}

		if quote.IsNone() {
			continue
		}

		price := quote.Unwrap().Price
		stopPrice := pos.AveragePrice * (1 - m.stopLoss)
		targetPrice := pos.AveragePrice * (1 + m.profitTarget)

		switch {
		case price <= stopPrice:
			trades = append(trades, m.close(pos, price, at,
				fmt.Sprintf("stop loss: %.2f <= %.2f", price, stopPrice)))
		case price >= targetPrice:
			trades = append(trades, m.close(pos, price, at,
				fmt.Sprintf("profit target: %.2f >= %.2f", price, targetPrice)))
		}
	}

	return trades
}

// CloseAll liquidates every open position at its latest price, falling back
// to the last known valuation when no quote is available. Used on shutdown.
func (m *Monitor) CloseAll(ctx context.Context, at time.Time) []types.Trade {
	var trades []types.Trade

	for _, pos := range m.ledger.Positions() {
		price := pos.CurrentPrice

		quote, err := m.source.GetQuote(ctx, pos.Symbol)
		if err == nil && quote.IsSome() {
			price = quote.Unwrap().Price
		}

		trades = append(trades, m.close(pos, price, at, "closing on shutdown"))
	}

	return trades
}

func (m *Monitor) close(pos types.Position, price float64, at time.Time, reason string) types.Trade {
	m.log.Info("Closing position",
		zap.String("symbol", pos.Symbol),
		zap.Float64("quantity", pos.Quantity),
		zap.Float64("price", price),
		zap.String("reason", reason),
	)

	sig := types.Signal{
		Symbol:      pos.Symbol,
		Side:        types.SideSell,
		Confidence:  1.0,
		PriceTarget: price,
		StopLoss:    pos.AveragePrice * (1 - m.stopLoss),
		Reasoning:   reason,
		Timestamp:   at,
	}

	return m.executor.ExecuteSignal(sig, pos.Quantity, price, at)
}
