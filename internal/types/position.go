package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is an open holding in a single symbol with cost basis and live
// valuation. Positions are owned exclusively by the ledger: created on first
// buy, repriced every cycle, removed when quantity reaches zero.
type Position struct {
	Symbol        string    `json:"symbol" yaml:"symbol"`
	Quantity      float64   `json:"quantity" yaml:"quantity"`
	AveragePrice  float64   `json:"average_price" yaml:"average_price"`
	CurrentPrice  float64   `json:"current_price" yaml:"current_price"`
	MarketValue   float64   `json:"market_value" yaml:"market_value"`
	UnrealizedPnL float64   `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	RealizedPnL   float64   `json:"realized_pnl" yaml:"realized_pnl"`
	LastUpdated   time.Time `json:"last_updated" yaml:"last_updated"`
}

// Reprice updates the position's valuation against a fresh price.
// MarketValue and UnrealizedPnL are recomputed with decimal arithmetic to
// avoid drift over repeated updates.
func (p *Position) Reprice(price float64, at time.Time) {
	qty := decimal.NewFromFloat(p.Quantity)
	priceDec := decimal.NewFromFloat(price)
	avgDec := decimal.NewFromFloat(p.AveragePrice)

	p.CurrentPrice = price
	p.MarketValue, _ = qty.Mul(priceDec).Float64()
	p.UnrealizedPnL, _ = priceDec.Sub(avgDec).Mul(qty).Float64()
	p.LastUpdated = at
}
