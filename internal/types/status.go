package types

import "time"

// BotState is the lifecycle state of the trading loop.
type BotState string

const (
	BotStateStopped  BotState = "STOPPED"
	BotStateStarting BotState = "STARTING"
	BotStateRunning  BotState = "RUNNING"
	BotStatePaused   BotState = "PAUSED"
	BotStateStopping BotState = "STOPPING"
)

// PortfolioSnapshot is a point-in-time view of the ledger, recomputed after
// every update pass. TotalValue always equals CashBalance plus the sum of
// position market values.
type PortfolioSnapshot struct {
	CashBalance    float64    `json:"cash_balance" yaml:"cash_balance"`
	InvestedAmount float64    `json:"invested_amount" yaml:"invested_amount"`
	TotalValue     float64    `json:"total_value" yaml:"total_value"`
	DailyPnL       float64    `json:"daily_pnl" yaml:"daily_pnl"`
	TotalPnL       float64    `json:"total_pnl" yaml:"total_pnl"`
	DailyReturn    float64    `json:"daily_return" yaml:"daily_return"`
	TotalReturn    float64    `json:"total_return" yaml:"total_return"`
	LastUpdated    time.Time  `json:"last_updated" yaml:"last_updated"`
	Positions      []Position `json:"positions" yaml:"positions"`
}

// BotStatus is a transient observability snapshot emitted once per cycle.
type BotStatus struct {
	State          BotState  `json:"state" yaml:"state"`
	IsRunning      bool      `json:"is_running" yaml:"is_running"`
	LastHeartbeat  time.Time `json:"last_heartbeat" yaml:"last_heartbeat"`
	ActiveTrades   int       `json:"active_trades" yaml:"active_trades"`
	DailyTrades    int       `json:"daily_trades" yaml:"daily_trades"`
	CurrentCapital float64   `json:"current_capital" yaml:"current_capital"`
	DailyPnL       float64   `json:"daily_pnl" yaml:"daily_pnl"`
	Errors         []string  `json:"errors" yaml:"errors"`
	Warnings       []string  `json:"warnings" yaml:"warnings"`
}
