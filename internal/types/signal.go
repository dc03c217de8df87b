package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

// Side is the direction of a signal or trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Signal is a scored, directional trade candidate with target and stop
// prices. Signals are created by the strategy layer, consumed once by the
// executor and then discarded.
type Signal struct {
	Symbol      string    `json:"symbol" yaml:"symbol" validate:"required"`
	Side        Side      `json:"side" yaml:"side" validate:"required,oneof=BUY SELL"`
	Confidence  float64   `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
	PriceTarget float64   `json:"price_target" yaml:"price_target" validate:"required,gt=0"`
	StopLoss    float64   `json:"stop_loss" yaml:"stop_loss" validate:"required,gt=0"`
	Reasoning   string    `json:"reasoning" yaml:"reasoning"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`

	// News holds the items that originated this signal, if any.
	News []NewsItem `json:"news,omitempty" yaml:"news,omitempty"`
	// Indicators holds the raw heuristic values the signal was scored from.
	Indicators map[string]float64 `json:"indicators,omitempty" yaml:"indicators,omitempty"`
}

// Validate validates the Signal struct.
func (s *Signal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	return nil
}
