package market

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/moznion/go-optional"

	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// DefaultQuoteTTL is how long a cached quote stays fresh. Stale-within-TTL
// reads are acceptable; the cache is an optimization, not a correctness
// mechanism.
const DefaultQuoteTTL = 60 * time.Second

const maxFetchRetries = 2

type cachedQuote struct {
	quote     optional.Option[types.Quote]
	fetchedAt time.Time
}

// CachedSource wraps a Source with a per-symbol quote cache and retries
// transient fetch failures with capped exponential backoff.
type CachedSource struct {
	underlying Source
	ttl        time.Duration

	mu     sync.RWMutex
	quotes map[string]cachedQuote
	now    func() time.Time
}

// NewCachedSource creates a CachedSource with the given quote TTL. A
// non-positive TTL falls back to DefaultQuoteTTL.
func NewCachedSource(underlying Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}

	return &CachedSource{
		underlying: underlying,
		ttl:        ttl,
		quotes:     make(map[string]cachedQuote),
		now:        time.Now,
	}
}

// ClearCache drops all cached quotes.
func (c *CachedSource) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes = make(map[string]cachedQuote)
}

// GetQuote implements Source with caching and retry.
func (c *CachedSource) GetQuote(ctx context.Context, symbol string) (optional.Option[types.Quote], error) {
	c.mu.RLock()
	if entry, ok := c.quotes[symbol]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		c.mu.RUnlock()

		return entry.quote, nil
	}
	c.mu.RUnlock()

	var quote optional.Option[types.Quote]

	err := c.retry(ctx, func() error {
		var fetchErr error
		quote, fetchErr = c.underlying.GetQuote(ctx, symbol)

		return fetchErr
	})
	if err != nil {
		return optional.None[types.Quote](), err
	}

	c.mu.Lock()
	c.quotes[symbol] = cachedQuote{quote: quote, fetchedAt: c.now()}
	c.mu.Unlock()

	return quote, nil
}

// GetTopMovers implements Source with retry; results are not cached because
// the ordering changes every fetch.
func (c *CachedSource) GetTopMovers(ctx context.Context, limit int) ([]types.Quote, error) {
	var quotes []types.Quote

	err := c.retry(ctx, func() error {
		var fetchErr error
		quotes, fetchErr = c.underlying.GetTopMovers(ctx, limit)

		return fetchErr
	})

	return quotes, err
}

// GetNews implements Source with retry.
func (c *CachedSource) GetNews(ctx context.Context, symbols []string, hoursBack int) ([]types.NewsItem, error) {
	var items []types.NewsItem

	err := c.retry(ctx, func() error {
		var fetchErr error
		items, fetchErr = c.underlying.GetNews(ctx, symbols, hoursBack)

		return fetchErr
	})

	return items, err
}

// GetMarketStatus implements Source.
func (c *CachedSource) GetMarketStatus(ctx context.Context) (types.MarketStatus, error) {
	return c.underlying.GetMarketStatus(ctx)
}

// GetMarketSentiment implements Source.
func (c *CachedSource) GetMarketSentiment(ctx context.Context, symbol string) (types.SentimentReading, error) {
	return c.underlying.GetMarketSentiment(ctx, symbol)
}

func (c *CachedSource) retry(ctx context.Context, operation func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries),
		ctx,
	)

	return backoff.Retry(operation, policy)
}
