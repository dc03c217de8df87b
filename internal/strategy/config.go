// Package strategy turns market data into scored trade candidates. Three
// independent heuristics (momentum, news sentiment, technical) each emit
// signals; the generator merges, filters and ranks them.
package strategy

// Config holds the named tunables of the signal heuristics. Every scoring
// constant that affects behavior lives here rather than inline, so tests can
// pin it and operators can tune it.
type Config struct {
	// MinConfidence is the floor below which signals are dropped.
	MinConfidence float64
	// MinVolume is the minimum share volume considered liquid enough.
	MinVolume int64
	// MaxDailyTrades caps signal output to the remaining daily budget.
	MaxDailyTrades int
	// ProfitTarget is the target gain as a fraction of entry price.
	ProfitTarget float64
	// StopLoss is the tolerated loss as a fraction of entry price.
	StopLoss float64
	// MomentumThreshold is the minimum fractional price move for the
	// momentum heuristic to consider a symbol.
	MomentumThreshold float64
	// NewsLookbackHours bounds the news fetch window.
	NewsLookbackHours int
	// TopMoversLimit bounds the quote batch fetch.
	TopMoversLimit int
	// MinNewsImpact is the impact score floor for news-driven signals.
	MinNewsImpact float64
	// CredibleSources earn a confidence bonus on news signals.
	CredibleSources []string

	// Momentum score weights; they sum to 1.
	MomentumChangeWeight     float64
	MomentumVolumeWeight     float64
	MomentumVolatilityWeight float64

	// Normalization scales for the momentum factors.
	ChangeNormalizePercent float64
	VolumeNormalizeShares  float64
}

// DefaultConfig returns the strategy defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidence:     0.7,
		MinVolume:         1_000_000,
		MaxDailyTrades:    20,
		ProfitTarget:      0.05,
		StopLoss:          0.02,
		MomentumThreshold: 0.03,
		NewsLookbackHours: 6,
		TopMoversLimit:    100,
		MinNewsImpact:     0.7,
		CredibleSources:   []string{"Reuters", "Bloomberg", "CNBC", "MarketWatch"},

		MomentumChangeWeight:     0.5,
		MomentumVolumeWeight:     0.3,
		MomentumVolatilityWeight: 0.2,

		ChangeNormalizePercent: 10,
		VolumeNormalizeShares:  10_000_000,
	}
}
