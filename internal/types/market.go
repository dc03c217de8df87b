package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Sentiment classifies the direction of a news item or a symbol's price action.
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// Quote is an immutable snapshot of a symbol's market data, produced fresh on
// every fetch.
type Quote struct {
	Symbol        string    `json:"symbol" yaml:"symbol" validate:"required"`
	Price         float64   `json:"price" yaml:"price" validate:"required,gt=0"`
	Volume        int64     `json:"volume" yaml:"volume" validate:"gte=0"`
	High          float64   `json:"high" yaml:"high"`
	Low           float64   `json:"low" yaml:"low"`
	Open          float64   `json:"open" yaml:"open"`
	PreviousClose float64   `json:"previous_close" yaml:"previous_close"`
	Change        float64   `json:"change" yaml:"change"`
	ChangePercent float64   `json:"change_percent" yaml:"change_percent"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`

	// MarketCap and PERatio are not available from every data source.
	MarketCap optional.Option[float64] `json:"market_cap,omitempty" yaml:"market_cap,omitempty"`
	PERatio   optional.Option[float64] `json:"pe_ratio,omitempty" yaml:"pe_ratio,omitempty"`
}

// IntradayRange returns the high-low range as a fraction of the open price.
// Returns 0 when the open price is unknown.
func (q *Quote) IntradayRange() float64 {
	if q.Open == 0 {
		return 0
	}

	return (q.High - q.Low) / q.Open
}

// NewsItem is a single news event with sentiment annotations. Immutable once
// created.
type NewsItem struct {
	Title       string    `json:"title" yaml:"title" validate:"required"`
	Description string    `json:"description" yaml:"description"`
	Source      string    `json:"source" yaml:"source"`
	URL         string    `json:"url" yaml:"url"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Sentiment   Sentiment `json:"sentiment" yaml:"sentiment" validate:"required,oneof=BULLISH BEARISH NEUTRAL"`
	Confidence  float64   `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
	Symbols     []string  `json:"symbols" yaml:"symbols"`
	ImpactScore float64   `json:"impact_score" yaml:"impact_score" validate:"gte=0,lte=1"`
}

// SentimentReading is the aggregated sentiment for a single symbol.
type SentimentReading struct {
	Symbol     string    `json:"symbol" yaml:"symbol"`
	Sentiment  Sentiment `json:"sentiment" yaml:"sentiment"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// MarketStatus reports whether the market is currently open for trading.
type MarketStatus struct {
	IsOpen    bool   `json:"is_open" yaml:"is_open"`
	OpenTime  string `json:"open_time" yaml:"open_time"`
	CloseTime string `json:"close_time" yaml:"close_time"`
}
