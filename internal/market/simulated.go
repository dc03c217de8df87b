package market

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/moznion/go-optional"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// Default simulation parameters.
const (
	DefaultVolatility   = 0.02
	DefaultHistoryLimit = 100

	// newsChangeThreshold is the minimum absolute percentage move that
	// produces a synthetic news item.
	newsChangeThreshold = 1.0
)

// DefaultBasePrices is the simulated symbol universe with its anchor prices.
func DefaultBasePrices() map[string]float64 {
	return map[string]float64{
		"AAPL":  150.0,
		"MSFT":  300.0,
		"GOOGL": 2800.0,
		"AMZN":  3300.0,
		"TSLA":  700.0,
		"META":  350.0,
		"NVDA":  500.0,
	}
}

// SimulatedSourceConfig configures the simulated market source.
type SimulatedSourceConfig struct {
	// BasePrices anchors each simulated symbol. Prices never fall below half
	// of the anchor.
	BasePrices map[string]float64
	// Volatility is the per-step standard deviation of the random walk.
	Volatility float64
	// HistoryLimit bounds the per-symbol price history.
	HistoryLimit int
	// MarketOpen and MarketClose are HH:MM local times for GetMarketStatus.
	MarketOpen  string
	MarketClose string
}

// SimulatedSource generates quotes from a per-symbol random walk. It stands
// in for a real market data provider so the trading loop can run without
// external dependencies.
type SimulatedSource struct {
	cfg SimulatedSourceConfig
	log *logger.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	history map[string][]float64
	now     func() time.Time
}

// NewSimulatedSource creates a simulated source seeded for reproducibility.
func NewSimulatedSource(cfg SimulatedSourceConfig, seed int64, log *logger.Logger) *SimulatedSource {
	if cfg.BasePrices == nil {
		cfg.BasePrices = DefaultBasePrices()
	}

	if cfg.Volatility <= 0 {
		cfg.Volatility = DefaultVolatility
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}

	history := make(map[string][]float64, len(cfg.BasePrices))
	for symbol, price := range cfg.BasePrices {
		history[symbol] = []float64{price}
	}

	return &SimulatedSource{
		cfg:     cfg,
		log:     log,
		rng:     rand.New(rand.NewSource(seed)),
		history: history,
		now:     time.Now,
	}
}

// Symbols returns the simulated universe in deterministic order.
func (s *SimulatedSource) Symbols() []string {
	symbols := make([]string, 0, len(s.cfg.BasePrices))
	for symbol := range s.cfg.BasePrices {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}

// simulateMove advances the random walk for a symbol and returns the new
// price with its absolute and percentage change. Caller must hold s.mu.
func (s *SimulatedSource) simulateMove(symbol string) (price, change, changePct float64) {
	base := s.cfg.BasePrices[symbol]

	current := base
	if hist := s.history[symbol]; len(hist) > 0 {
		current = hist[len(hist)-1]
	}

	// Random walk with a slight drifting trend.
	trend := (s.rng.Float64() - 0.5) * 0.02
	step := s.rng.NormFloat64()*s.cfg.Volatility + trend

	price = current * (1 + step)
	if floor := base * 0.5; price < floor {
		price = floor
	}

	s.history[symbol] = append(s.history[symbol], price)
	if len(s.history[symbol]) > s.cfg.HistoryLimit {
		s.history[symbol] = s.history[symbol][len(s.history[symbol])-s.cfg.HistoryLimit:]
	}

	change = price - current
	changePct = change / current * 100

	return price, change, changePct
}

// GetQuote implements Source.
func (s *SimulatedSource) GetQuote(ctx context.Context, symbol string) (optional.Option[types.Quote], error) {
	if err := ctx.Err(); err != nil {
		return optional.None[types.Quote](), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cfg.BasePrices[symbol]; !ok {
		return optional.None[types.Quote](), nil
	}

	price, change, changePct := s.simulateMove(symbol)

	volume := int64(1_000_000 + s.rng.Intn(9_000_000))
	high := price * (1 + s.rng.Float64()*0.05)
	low := price * (1 - s.rng.Float64()*0.05)
	open := price * (1 + (s.rng.Float64()-0.5)*0.04)

	quote := types.Quote{
		Symbol:        symbol,
		Price:         price,
		Volume:        volume,
		High:          high,
		Low:           low,
		Open:          open,
		PreviousClose: price - change,
		Change:        change,
		ChangePercent: changePct,
		Timestamp:     s.now(),
		MarketCap:     optional.Some(price * float64(volume) * 0.1),
		PERatio:       optional.Some(15 + s.rng.Float64()*15),
	}

	return optional.Some(quote), nil
}

// GetTopMovers implements Source.
func (s *SimulatedSource) GetTopMovers(ctx context.Context, limit int) ([]types.Quote, error) {
	quotes := make([]types.Quote, 0, limit)

	for _, symbol := range s.Symbols() {
		if len(quotes) >= limit {
			break
		}

		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}

		if quote.IsSome() {
			quotes = append(quotes, quote.Unwrap())
		}
	}

	sort.Slice(quotes, func(i, j int) bool {
		return abs(quotes[i].ChangePercent) > abs(quotes[j].ChangePercent)
	})

	return quotes, nil
}

// GetNews implements Source. News is synthesized from notable price moves in
// the requested symbols.
func (s *SimulatedSource) GetNews(ctx context.Context, symbols []string, hoursBack int) ([]types.NewsItem, error) {
	if symbols == nil {
		symbols = s.Symbols()
	}

	// Bound the scan the way a real provider bounds a news query.
	if len(symbols) > 3 {
		symbols = symbols[:3]
	}

	items := make([]types.NewsItem, 0, len(symbols))

	for _, symbol := range symbols {
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}

		if quote.IsNone() {
			continue
		}

		q := quote.Unwrap()
		if abs(q.ChangePercent) <= newsChangeThreshold {
			continue
		}

		sentiment := types.SentimentBullish
		if q.ChangePercent < 0 {
			sentiment = types.SentimentBearish
		}

		strength := "moderate"
		if abs(q.ChangePercent) > 3 {
			strength = "strong"
		}

		items = append(items, types.NewsItem{
			Title:       fmt.Sprintf("%s shows %s movement", symbol, strength),
			Description: fmt.Sprintf("%s is trading at $%.2f with %+.2f%% change", symbol, q.Price, q.ChangePercent),
			Source:      "Simulated News",
			URL:         "",
			PublishedAt: s.now(),
			Sentiment:   sentiment,
			Confidence:  0.7,
			Symbols:     []string{symbol},
			ImpactScore: min(0.9, abs(q.ChangePercent)/10),
		})
	}

	return dedupeNews(items), nil
}

// GetMarketStatus implements Source.
func (s *SimulatedSource) GetMarketStatus(ctx context.Context) (types.MarketStatus, error) {
	if err := ctx.Err(); err != nil {
		return types.MarketStatus{}, err
	}

	status := types.MarketStatus{
		IsOpen:    false,
		OpenTime:  s.cfg.MarketOpen,
		CloseTime: s.cfg.MarketClose,
	}

	open, err := clockMinutes(s.cfg.MarketOpen)
	if err != nil {
		return status, nil
	}

	closeAt, err := clockMinutes(s.cfg.MarketClose)
	if err != nil {
		return status, nil
	}

	now := s.now()
	current := now.Hour()*60 + now.Minute()
	status.IsOpen = current >= open && current < closeAt

	return status, nil
}

// GetMarketSentiment implements Source. Sentiment follows recent price
// movement: above +2%% bullish, below -2%% bearish, neutral otherwise.
func (s *SimulatedSource) GetMarketSentiment(ctx context.Context, symbol string) (types.SentimentReading, error) {
	reading := types.SentimentReading{
		Symbol:     symbol,
		Sentiment:  types.SentimentNeutral,
		Confidence: 0.5,
		Timestamp:  s.now(),
	}

	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return reading, err
	}

	if quote.IsNone() {
		return reading, nil
	}

	q := quote.Unwrap()

	switch {
	case q.ChangePercent > 2:
		reading.Sentiment = types.SentimentBullish
		reading.Confidence = min(0.9, abs(q.ChangePercent)/10)
	case q.ChangePercent < -2:
		reading.Sentiment = types.SentimentBearish
		reading.Confidence = min(0.9, abs(q.ChangePercent)/10)
	}

	return reading, nil
}

// dedupeNews removes duplicate items keyed by title and publication time.
func dedupeNews(items []types.NewsItem) []types.NewsItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]types.NewsItem, 0, len(items))

	for _, item := range items {
		key := fmt.Sprintf("%s_%d", item.Title, item.PublishedAt.UnixNano())
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}

// clockMinutes parses an HH:MM string into minutes since midnight.
func clockMinutes(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}

	return t.Hour()*60 + t.Minute(), nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
