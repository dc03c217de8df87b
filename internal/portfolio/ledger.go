// Package portfolio tracks cash and open positions and simulates trade
// execution against them. All money math runs on decimals internally;
// float64 only appears at the API boundary.
package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/market"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

// Ledger is the single source of truth for cash and positions. Every
// mutation goes through Buy or Sell; valuations are refreshed by
// UpdatePortfolio. Safe for concurrent use.
type Ledger struct {
	mu sync.RWMutex

	initialCapital  decimal.Decimal
	cash            decimal.Decimal
	dailyStartValue decimal.Decimal
	realizedPnL     decimal.Decimal

	positions map[string]*types.Position
	order     []string

	lastUpdated time.Time
	log         *logger.Logger
}

// NewLedger creates a ledger funded with the given starting cash.
func NewLedger(initialCapital float64, log *logger.Logger) *Ledger {
	capital := decimal.NewFromFloat(initialCapital)

	return &Ledger{
		initialCapital:  capital,
		cash:            capital,
		dailyStartValue: capital,
		realizedPnL:     decimal.Zero,
		positions:       make(map[string]*types.Position),
		log:             log,
	}
}

// Buy debits cash for quantity shares at price and merges them into the
// symbol's position, recomputing the weighted average entry price. The cash
// balance can never go negative; an order larger than the available cash is
// refused.
func (l *Ledger) Buy(symbol string, quantity, price float64, at time.Time) error {
	if quantity <= 0 {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "buy quantity must be positive, got %v", quantity)
	}

	if price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPrice, "buy price must be positive, got %v", price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	qty := decimal.NewFromFloat(quantity)
	priceDec := decimal.NewFromFloat(price)
	cost := qty.Mul(priceDec)

	if cost.GreaterThan(l.cash) {
		return errors.Newf(errors.ErrCodeInsufficientCash,
			"order cost %s exceeds cash balance %s", cost.StringFixed(2), l.cash.StringFixed(2))
	}

	l.cash = l.cash.Sub(cost)

	pos, ok := l.positions[symbol]
	if !ok {
		pos = &types.Position{Symbol: symbol}
		l.positions[symbol] = pos
		l.order = append(l.order, symbol)
	}

	oldQty := decimal.NewFromFloat(pos.Quantity)
	oldAvg := decimal.NewFromFloat(pos.AveragePrice)

	newQty := oldQty.Add(qty)
	newAvg := oldQty.Mul(oldAvg).Add(cost).Div(newQty)

	pos.Quantity, _ = newQty.Float64()
	pos.AveragePrice, _ = newAvg.Float64()
	pos.Reprice(price, at)

	l.log.Info("Bought",
		zap.String("symbol", symbol),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.String("cash", l.cash.StringFixed(2)),
	)

	return nil
}

// Sell credits cash for quantity shares at price, books the realized gain or
// loss against the average entry price and shrinks the position, removing it
// entirely when quantity reaches zero.
func (l *Ledger) Sell(symbol string, quantity, price float64, at time.Time) error {
	if quantity <= 0 {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "sell quantity must be positive, got %v", quantity)
	}

	if price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPrice, "sell price must be positive, got %v", price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return errors.Newf(errors.ErrCodePositionNotFound, "no open position in %s", symbol)
	}

	qty := decimal.NewFromFloat(quantity)
	held := decimal.NewFromFloat(pos.Quantity)

	if qty.GreaterThan(held) {
		return errors.Newf(errors.ErrCodeInsufficientPosition,
			"sell quantity %v exceeds held quantity %v in %s", quantity, pos.Quantity, symbol)
	}

	priceDec := decimal.NewFromFloat(price)
	avg := decimal.NewFromFloat(pos.AveragePrice)

	proceeds := qty.Mul(priceDec)
	realized := priceDec.Sub(avg).Mul(qty)

	l.cash = l.cash.Add(proceeds)
	l.realizedPnL = l.realizedPnL.Add(realized)

	remaining := held.Sub(qty)

	if remaining.IsZero() {
		delete(l.positions, symbol)
		l.removeFromOrder(symbol)
	} else {
		pos.Quantity, _ = remaining.Float64()
		pos.RealizedPnL, _ = decimal.NewFromFloat(pos.RealizedPnL).Add(realized).Float64()
		pos.Reprice(price, at)
	}

	realizedFloat, _ := realized.Float64()
	l.log.Info("Sold",
		zap.String("symbol", symbol),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.Float64("realized_pnl", realizedFloat),
		zap.String("cash", l.cash.StringFixed(2)),
	)

	return nil
}

// UpdatePortfolio reprices every open position from the source. A symbol
// whose quote is missing or failing keeps its previous valuation; the cycle
// never aborts over a single stale quote.
func (l *Ledger) UpdatePortfolio(ctx context.Context, source market.Source, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, symbol := range l.order {
		quote, err := source.GetQuote(ctx, symbol)
		if err != nil {
			l.log.Warn("Failed to refresh quote", zap.String("symbol", symbol), zap.Error(err))

			continue
		}

		if quote.IsNone() {
			continue
		}

		l.positions[symbol].Reprice(quote.Unwrap().Price, at)
	}

	l.lastUpdated = at
}

// RepriceSymbol updates one position's valuation, typically after an
// execution touched it mid-cycle.
func (l *Ledger) RepriceSymbol(symbol string, price float64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pos, ok := l.positions[symbol]; ok {
		pos.Reprice(price, at)
	}
}

// ResetDaily rebases the daily P&L baseline to the current total value.
// Called once per calendar-day rollover.
func (l *Ledger) ResetDaily(at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.dailyStartValue = l.totalValueLocked()
	l.lastUpdated = at

	l.log.Info("Daily baseline reset", zap.String("baseline", l.dailyStartValue.StringFixed(2)))
}

// Snapshot returns a consistent point-in-time view of the ledger.
func (l *Ledger) Snapshot() types.PortfolioSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	invested := decimal.Zero
	positions := make([]types.Position, 0, len(l.order))

	for _, symbol := range l.order {
		pos := l.positions[symbol]
		invested = invested.Add(decimal.NewFromFloat(pos.MarketValue))
		positions = append(positions, *pos)
	}

	total := l.cash.Add(invested)
	dailyPnL := total.Sub(l.dailyStartValue)
	totalPnL := total.Sub(l.initialCapital)

	snapshot := types.PortfolioSnapshot{
		LastUpdated: l.lastUpdated,
		Positions:   positions,
	}

	snapshot.CashBalance, _ = l.cash.Float64()
	snapshot.InvestedAmount, _ = invested.Float64()
	snapshot.TotalValue, _ = total.Float64()
	snapshot.DailyPnL, _ = dailyPnL.Float64()
	snapshot.TotalPnL, _ = totalPnL.Float64()

	if l.dailyStartValue.IsPositive() {
		snapshot.DailyReturn, _ = dailyPnL.Div(l.dailyStartValue).Float64()
	}

	if l.initialCapital.IsPositive() {
		snapshot.TotalReturn, _ = totalPnL.Div(l.initialCapital).Float64()
	}

	return snapshot
}

// OpenSymbols returns the held symbols in position-open order.
func (l *Ledger) OpenSymbols() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	symbols := make([]string, len(l.order))
	copy(symbols, l.order)

	return symbols
}

// Positions returns copies of the open positions in position-open order.
func (l *Ledger) Positions() []types.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	positions := make([]types.Position, 0, len(l.order))
	for _, symbol := range l.order {
		positions = append(positions, *l.positions[symbol])
	}

	return positions
}

// Position returns a copy of the position in symbol, if one is open.
func (l *Ledger) Position(symbol string) (types.Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return types.Position{}, false
	}

	return *pos, true
}

// CashBalance returns the current uninvested cash.
func (l *Ledger) CashBalance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cash, _ := l.cash.Float64()

	return cash
}

// TotalValue returns cash plus the market value of all open positions.
func (l *Ledger) TotalValue() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total, _ := l.totalValueLocked().Float64()

	return total
}

// InitialCapital returns the starting cash the ledger was funded with.
func (l *Ledger) InitialCapital() float64 {
	capital, _ := l.initialCapital.Float64()

	return capital
}

func (l *Ledger) totalValueLocked() decimal.Decimal {
	total := l.cash
	for _, pos := range l.positions {
		total = total.Add(decimal.NewFromFloat(pos.MarketValue))
	}

	return total
}

func (l *Ledger) removeFromOrder(symbol string) {
	for i, s := range l.order {
		if s == symbol {
			l.order = append(l.order[:i], l.order[i+1:]...)

			return
		}
	}
}
