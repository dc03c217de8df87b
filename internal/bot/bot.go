// Package bot runs the trading loop: a state machine that cycles through
// portfolio updates, risk checks, signal generation, execution and position
// monitoring until its context is cancelled.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/config"
	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/market"
	"github.com/ajseidenfrau/NVSTWZ/internal/portfolio"
	"github.com/ajseidenfrau/NVSTWZ/internal/risk"
	"github.com/ajseidenfrau/NVSTWZ/internal/strategy"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

const (
	// DefaultCycleInterval is the pause between trading cycles.
	DefaultCycleInterval = 30 * time.Second
	// DefaultRiskPause is how long trading stays paused after a risk limit
	// trips.
	DefaultRiskPause = 5 * time.Minute
	// DefaultErrorBackoff is the pause after a failed cycle.
	DefaultErrorBackoff = 1 * time.Minute

	// maxRecorded bounds the error and warning lists in the status.
	maxRecorded = 5
)

// Bot owns the trading loop and its collaborators. Its lifecycle runs
// STOPPED -> STARTING -> RUNNING, dipping into PAUSED on risk breaches, and
// winds down through STOPPING back to STOPPED when the context is cancelled.
type Bot struct {
	cfg      config.Config
	source   market.Source
	gen      *strategy.Generator
	ledger   *portfolio.Ledger
	executor *portfolio.Executor
	gate     *risk.Gate
	monitor  *Monitor
	log      *logger.Logger

	mu            sync.RWMutex
	state         types.BotState
	lastHeartbeat time.Time
	lastDay       time.Time
	errors        []string
	warnings      []string

	cycleInterval time.Duration
	riskPause     time.Duration
	errorBackoff  time.Duration
	now           func() time.Time
}

// New wires a bot from configuration and a market source.
func New(cfg config.Config, source market.Source, log *logger.Logger) *Bot {
	stratCfg := strategy.DefaultConfig()
	stratCfg.MinConfidence = cfg.Strategy.MinConfidence
	stratCfg.MinVolume = cfg.Strategy.MinVolume
	stratCfg.ProfitTarget = cfg.Strategy.ProfitTarget
	stratCfg.StopLoss = cfg.Strategy.StopLoss
	stratCfg.MomentumThreshold = cfg.Strategy.MomentumThreshold
	stratCfg.NewsLookbackHours = cfg.Strategy.NewsLookbackHours
	stratCfg.TopMoversLimit = cfg.Strategy.TopMoversLimit
	stratCfg.MaxDailyTrades = cfg.Trading.MaxDailyTrades

	policy := portfolio.DefaultSizingPolicy()
	policy.MaxPositionFraction = cfg.Strategy.MaxPositionSize

	ledger := portfolio.NewLedger(cfg.Trading.InitialCapital, log)
	executor := portfolio.NewExecutor(ledger, policy, log)

	now := time.Now

	return &Bot{
		cfg:      cfg,
		source:   source,
		gen:      strategy.NewGenerator(source, stratCfg, log),
		ledger:   ledger,
		executor: executor,
		gate:     risk.NewGate(cfg.Trading.MaxDailyLoss, log),
		monitor:  NewMonitor(ledger, executor, source, cfg.Strategy.StopLoss, cfg.Strategy.ProfitTarget, log),
		log:      log,

		state:   types.BotStateStopped,
		lastDay: now(),

		cycleInterval: DefaultCycleInterval,
		riskPause:     DefaultRiskPause,
		errorBackoff:  DefaultErrorBackoff,
		now:           now,
	}
}

// Run drives the trading loop until ctx is cancelled, then closes all open
// positions and returns. Each cycle is recovered: a panicking cycle is
// recorded as an error and the loop keeps going.
func (b *Bot) Run(ctx context.Context) error {
	b.setState(types.BotStateStarting)
	b.log.Info("Bot starting",
		zap.Float64("initial_capital", b.cfg.Trading.InitialCapital),
		zap.Int("max_daily_trades", b.cfg.Trading.MaxDailyTrades),
	)

	b.setState(types.BotStateRunning)

	for {
		select {
		case <-ctx.Done():
			return b.shutdown()
		default:
		}

		pause, err := b.safeCycle(ctx)

		switch {
		case pause:
			b.setState(types.BotStatePaused)
			b.recordWarning("risk limits breached, trading paused")

			if !b.wait(ctx, b.riskPause) {
				return b.shutdown()
			}

			b.setState(types.BotStateRunning)
		case err != nil:
			b.recordError(err.Error())
			b.log.Error("Cycle failed", zap.Error(err))

			if !b.wait(ctx, b.errorBackoff) {
				return b.shutdown()
			}
		default:
			if !b.wait(ctx, b.cycleInterval) {
				return b.shutdown()
			}
		}
	}
}

// Status returns the current observability snapshot.
func (b *Bot) Status() types.BotStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := b.ledger.Snapshot()

	return types.BotStatus{
		State:          b.state,
		IsRunning:      b.state == types.BotStateRunning,
		LastHeartbeat:  b.lastHeartbeat,
		ActiveTrades:   len(snapshot.Positions),
		DailyTrades:    b.gen.DailyTrades(),
		CurrentCapital: snapshot.TotalValue,
		DailyPnL:       snapshot.DailyPnL,
		Errors:         append([]string(nil), b.errors...),
		Warnings:       append([]string(nil), b.warnings...),
	}
}

// Snapshot returns the current portfolio view.
func (b *Bot) Snapshot() types.PortfolioSnapshot {
	return b.ledger.Snapshot()
}

// State returns the current lifecycle state.
func (b *Bot) State() types.BotState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.state
}

// safeCycle runs one cycle, converting a panic into an error so a bad cycle
// never kills the loop.
func (b *Bot) safeCycle(ctx context.Context) (pause bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			pause = false
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	return b.runCycle(ctx)
}

// runCycle executes one pass of the trading loop. It returns pause=true when
// the risk gate tripped; any error is backed off by the caller.
func (b *Bot) runCycle(ctx context.Context) (bool, error) {
	at := b.now()
	b.resetDailyCounters(at)

	status, err := b.source.GetMarketStatus(ctx)
	if err != nil {
		b.log.Warn("Failed to fetch market status", zap.Error(err))
	} else if !status.IsOpen {
		b.log.Debug("Market closed", zap.String("opens", status.OpenTime))
	}

	b.ledger.UpdatePortfolio(ctx, b.source, at)

	snapshot := b.ledger.Snapshot()
	if !b.gate.CheckLimits(snapshot.DailyPnL, snapshot.TotalPnL, b.ledger.InitialCapital()) {
		return true, nil
	}

	signals, err := b.gen.Generate(ctx, b.ledger.OpenSymbols())
	if err != nil {
		// Stale market data is survivable; trade on nothing this cycle.
		b.log.Warn("Signal generation failed", zap.Error(err))
		signals = nil
	}

	for _, sig := range signals {
		b.executeSignal(ctx, sig, snapshot.TotalValue, at)
	}

	closed := b.monitor.CheckPositions(ctx, at)
	for _, trade := range closed {
		if trade.IsFilled() {
			b.log.Info("Position closed",
				zap.String("symbol", trade.Symbol),
				zap.Float64("price", trade.Price),
			)
		}
	}

	b.heartbeat(at)

	return false, nil
}

func (b *Bot) executeSignal(ctx context.Context, sig types.Signal, currentCapital float64, at time.Time) {
	if !b.gen.ValidateSignal(ctx, sig) {
		return
	}

	// Fills settle at the live price, not the signal's target. The cached
	// source makes this re-fetch cheap.
	quote, err := b.source.GetQuote(ctx, sig.Symbol)
	if err != nil || quote.IsNone() {
		return
	}

	price := quote.Unwrap().Price

	var quantity float64

	switch sig.Side {
	case types.SideBuy:
		if !b.executor.CapitalAvailable(currentCapital) {
			b.log.Info("Insufficient free cash for new position", zap.String("symbol", sig.Symbol))

			return
		}

		quantity = b.executor.SizePosition(sig)
	case types.SideSell:
		if pos, ok := b.ledger.Position(sig.Symbol); ok {
			quantity = pos.Quantity
		}
	}

	trade := b.executor.ExecuteSignal(sig, quantity, price, at)
	if trade.IsFilled() {
		b.gen.RecordTrade()
	}
}

// shutdown closes every open position and parks the bot in STOPPED. Uses a
// fresh context because the run context is already cancelled.
func (b *Bot) shutdown() error {
	b.setState(types.BotStateStopping)
	b.log.Info("Bot stopping, closing open positions")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trades := b.monitor.CloseAll(ctx, b.now())
	for _, trade := range trades {
		if !trade.IsFilled() {
			b.log.Warn("Failed to close position on shutdown",
				zap.String("symbol", trade.Symbol),
				zap.String("reason", trade.Notes),
			)
		}
	}

	snapshot := b.ledger.Snapshot()
	b.log.Info("Bot stopped",
		zap.Float64("final_value", snapshot.TotalValue),
		zap.Float64("total_pnl", snapshot.TotalPnL),
		zap.Float64("total_return", snapshot.TotalReturn),
	)

	b.setState(types.BotStateStopped)

	return nil
}

func (b *Bot) resetDailyCounters(at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if at.Year() != b.lastDay.Year() || at.YearDay() != b.lastDay.YearDay() {
		b.ledger.ResetDaily(at)
		b.gen.ResetDaily()
		b.lastDay = at
	}
}

func (b *Bot) heartbeat(at time.Time) {
	b.mu.Lock()
	b.lastHeartbeat = at
	b.mu.Unlock()

	status := b.Status()
	b.log.Info("Cycle complete",
		zap.String("state", string(status.State)),
		zap.Int("active_positions", status.ActiveTrades),
		zap.Int("daily_trades", status.DailyTrades),
		zap.Float64("capital", status.CurrentCapital),
		zap.Float64("daily_pnl", status.DailyPnL),
	)
}

func (b *Bot) setState(state types.BotState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.log.Info("State transition", zap.String("from", string(b.state)), zap.String("to", string(state)))
	b.state = state
}

func (b *Bot) recordError(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errors = appendBounded(b.errors, msg)
}

func (b *Bot) recordWarning(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.warnings = appendBounded(b.warnings, msg)
}

func appendBounded(list []string, msg string) []string {
	list = append(list, msg)
	if len(list) > maxRecorded {
		list = list[len(list)-maxRecorded:]
	}

	return list
}

// wait sleeps for d or until ctx is cancelled; false means cancelled.
func (b *Bot) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
