package portfolio

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

// SizingPolicy controls how much of the portfolio a single order may take.
type SizingPolicy struct {
	// AllocationFraction of current cash allocated to one new position.
	AllocationFraction float64
	// MaxPositionFraction of total portfolio value a single position may
	// reach; it caps the cash allocation.
	MaxPositionFraction float64
	// MinCashFraction of current capital that must remain liquid for new
	// buys to be considered.
	MinCashFraction float64
}

// DefaultSizingPolicy allocates 20% of cash per position, caps any position
// at 30% of portfolio value and requires 10% of capital to stay liquid.
func DefaultSizingPolicy() SizingPolicy {
	return SizingPolicy{
		AllocationFraction:  0.2,
		MaxPositionFraction: 0.3,
		MinCashFraction:     0.1,
	}
}

// Executor settles signals against the ledger. Every signal handed to it
// produces exactly one trade record, FILLED or REJECTED; business failures
// (not enough cash, no position) become rejections, never Go errors.
type Executor struct {
	ledger *Ledger
	policy SizingPolicy
	log    *logger.Logger
}

// NewExecutor creates an executor bound to the given ledger.
func NewExecutor(ledger *Ledger, policy SizingPolicy, log *logger.Logger) *Executor {
	return &Executor{
		ledger: ledger,
		policy: policy,
		log:    log,
	}
}

// SizePosition returns the whole-share quantity for a new position: the cash
// allocation divided by the target price, floored. Small accounts can floor
// to zero, which the executor later rejects.
func (e *Executor) SizePosition(sig types.Signal) float64 {
	if sig.PriceTarget <= 0 {
		return 0
	}

	allocation := e.ledger.CashBalance() * e.policy.AllocationFraction
	if limit := e.ledger.TotalValue() * e.policy.MaxPositionFraction; allocation > limit {
		allocation = limit
	}

	return math.Floor(allocation / sig.PriceTarget)
}

// CapitalAvailable reports whether enough cash remains liquid to open a new
// position, measured against the given total capital.
func (e *Executor) CapitalAvailable(currentCapital float64) bool {
	return e.ledger.CashBalance() >= currentCapital*e.policy.MinCashFraction
}

// ExecuteSignal settles a signal at the given execution price for the given
// quantity. The target price only sizes and exits the position; fills happen
// at the live price. The returned trade starts PENDING and is settled
// exactly once before returning.
func (e *Executor) ExecuteSignal(sig types.Signal, quantity, price float64, at time.Time) types.Trade {
	trade := types.Trade{
		ID:        uuid.NewString(),
		Symbol:    sig.Symbol,
		Side:      sig.Side,
		Quantity:  quantity,
		Price:     price,
		Timestamp: at,
		Status:    types.TradeStatusPending,
	}

	if quantity <= 0 {
		_ = trade.MarkRejected("position size rounds to zero shares")

		e.log.Info("Trade rejected",
			zap.String("symbol", trade.Symbol),
			zap.String("side", string(trade.Side)),
			zap.String("reason", trade.Notes),
		)

		return trade
	}

	var err error

	switch sig.Side {
	case types.SideBuy:
		err = e.ledger.Buy(sig.Symbol, quantity, price, at)
	case types.SideSell:
		err = e.ledger.Sell(sig.Symbol, quantity, price, at)
	default:
		err = errors.Newf(errors.ErrCodeInvalidTrade, "unknown side %q", sig.Side)
	}

	if err != nil {
		_ = trade.MarkRejected(err.Error())

		e.log.Info("Trade rejected",
			zap.String("symbol", trade.Symbol),
			zap.String("side", string(trade.Side)),
			zap.String("reason", trade.Notes),
		)

		return trade
	}

	_ = trade.MarkFilled()

	e.log.Info("Trade filled",
		zap.String("id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("side", string(trade.Side)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", trade.Price),
	)

	return trade
}
