package types

import (
	"time"

	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

// TradeStatus is the settlement state of a trade record.
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "PENDING"
	TradeStatusFilled   TradeStatus = "FILLED"
	TradeStatusRejected TradeStatus = "REJECTED"
)

// Trade is an append-only execution record. A trade starts PENDING and
// transitions to FILLED or REJECTED exactly once; after that it is never
// mutated again.
type Trade struct {
	ID        string      `json:"id" yaml:"id"`
	Symbol    string      `json:"symbol" yaml:"symbol" validate:"required"`
	Side      Side        `json:"side" yaml:"side" validate:"required,oneof=BUY SELL"`
	Quantity  float64     `json:"quantity" yaml:"quantity"`
	Price     float64     `json:"price" yaml:"price"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp"`
	Status    TradeStatus `json:"status" yaml:"status"`
	Notes     string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// MarkFilled transitions the trade from PENDING to FILLED.
func (t *Trade) MarkFilled() error {
	if t.Status != TradeStatusPending {
		return errors.Newf(errors.ErrCodeTradeAlreadySettled, "trade %s already %s", t.ID, t.Status)
	}

	t.Status = TradeStatusFilled

	return nil
}

// MarkRejected transitions the trade from PENDING to REJECTED, recording the
// rejection reason in the notes.
func (t *Trade) MarkRejected(reason string) error {
	if t.Status != TradeStatusPending {
		return errors.Newf(errors.ErrCodeTradeAlreadySettled, "trade %s already %s", t.ID, t.Status)
	}

	t.Status = TradeStatusRejected
	if reason != "" {
		t.Notes = reason
	}

	return nil
}

// IsFilled reports whether the trade settled as FILLED.
func (t *Trade) IsFilled() bool {
	return t.Status == TradeStatusFilled
}
