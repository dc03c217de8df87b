// Package config loads and validates the bot configuration. Values come from
// three layers, later layers overriding earlier ones: built-in defaults, an
// optional YAML file, and NVSTWZ_-prefixed environment variables (a local
// .env file is honored when present).
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

const envPrefix = "nvstwz"

// TradingConfig holds capital and trading-cadence settings.
type TradingConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital" envconfig:"INITIAL_CAPITAL" validate:"required,gt=0" jsonschema:"title=Initial Capital,description=Starting capital in USD,minimum=0"`
	MaxDailyLoss   float64 `json:"max_daily_loss" yaml:"max_daily_loss" envconfig:"MAX_DAILY_LOSS" validate:"gte=0,lte=1" jsonschema:"title=Max Daily Loss,description=Fraction of initial capital that may be lost in one day before trading pauses"`
	MaxDailyTrades int     `json:"max_daily_trades" yaml:"max_daily_trades" envconfig:"MAX_DAILY_TRADES" validate:"required,gt=0" jsonschema:"title=Max Daily Trades,description=Maximum number of filled trades per calendar day"`
	MarketOpen     string  `json:"market_open" yaml:"market_open" envconfig:"MARKET_OPEN" validate:"required" jsonschema:"title=Market Open,description=Market open time in HH:MM"`
	MarketClose    string  `json:"market_close" yaml:"market_close" envconfig:"MARKET_CLOSE" validate:"required" jsonschema:"title=Market Close,description=Market close time in HH:MM"`
}

// StrategyConfig holds the named tunables of the signal heuristics.
type StrategyConfig struct {
	MinConfidence     float64 `json:"min_confidence" yaml:"min_confidence" envconfig:"MIN_CONFIDENCE" validate:"gte=0,lte=1" jsonschema:"description=Minimum confidence for a signal to survive filtering"`
	MaxPositionSize   float64 `json:"max_position_size" yaml:"max_position_size" envconfig:"MAX_POSITION_SIZE" validate:"gt=0,lte=1" jsonschema:"description=Maximum fraction of capital in a single position"`
	MinVolume         int64   `json:"min_volume" yaml:"min_volume" envconfig:"MIN_VOLUME" validate:"gte=0" jsonschema:"description=Minimum share volume for liquidity"`
	ProfitTarget      float64 `json:"profit_target" yaml:"profit_target" envconfig:"PROFIT_TARGET" validate:"gt=0,lt=1" jsonschema:"description=Profit target as a fraction of entry price"`
	StopLoss          float64 `json:"stop_loss" yaml:"stop_loss" envconfig:"STOP_LOSS" validate:"gt=0,lt=1" jsonschema:"description=Stop loss as a fraction of entry price"`
	MomentumThreshold float64 `json:"momentum_threshold" yaml:"momentum_threshold" envconfig:"MOMENTUM_THRESHOLD" validate:"gt=0,lt=1" jsonschema:"description=Minimum fractional price move to qualify as momentum"`
	NewsLookbackHours int     `json:"news_lookback_hours" yaml:"news_lookback_hours" envconfig:"NEWS_LOOKBACK_HOURS" validate:"gt=0" jsonschema:"description=How far back to fetch news"`
	TopMoversLimit    int     `json:"top_movers_limit" yaml:"top_movers_limit" envconfig:"TOP_MOVERS_LIMIT" validate:"gt=0" jsonschema:"description=Batch size for the top-movers quote fetch"`
}

// ServerConfig holds the status endpoint settings.
type ServerConfig struct {
	StatusAddr string `json:"status_addr" yaml:"status_addr" envconfig:"STATUS_ADDR" jsonschema:"description=Listen address for the status HTTP server; empty disables it"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" envconfig:"LEVEL" validate:"required,oneof=debug info warn error" jsonschema:"description=Log level"`
}

// Config is the full bot configuration.
type Config struct {
	Trading  TradingConfig  `json:"trading" yaml:"trading" envconfig:"TRADING"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy" envconfig:"STRATEGY"`
	Server   ServerConfig   `json:"server" yaml:"server" envconfig:"SERVER"`
	Log      LogConfig      `json:"log" yaml:"log" envconfig:"LOG"`
}

// Default returns the configuration defaults, matching a small-capital
// simulated account.
func Default() Config {
	return Config{
		Trading: TradingConfig{
			InitialCapital: 10.00,
			MaxDailyLoss:   0.00,
			MaxDailyTrades: 50,
			MarketOpen:     "09:30",
			MarketClose:    "16:00",
		},
		Strategy: StrategyConfig{
			MinConfidence:     0.7,
			MaxPositionSize:   0.3,
			MinVolume:         1_000_000,
			ProfitTarget:      0.05,
			StopLoss:          0.02,
			MomentumThreshold: 0.03,
			NewsLookbackHours: 6,
			TopMoversLimit:    100,
		},
		Server: ServerConfig{
			StatusAddr: "",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and environment variables, then validates the result.
func Load(path string) (Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read environment overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate validates the configuration, including that market hours parse and
// are ordered.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	open, err := time.Parse("15:04", c.Trading.MarketOpen)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid market_open %q", c.Trading.MarketOpen)
	}

	closeTime, err := time.Parse("15:04", c.Trading.MarketClose)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid market_close %q", c.Trading.MarketClose)
	}

	if !open.Before(closeTime) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "market_open %s must be before market_close %s",
			c.Trading.MarketOpen, c.Trading.MarketClose)
	}

	return nil
}
