// Package market defines the market data contract the bot trades against,
// plus a simulated implementation and a caching wrapper. Every call may fail
// or come back empty; callers treat an absent quote as "skip this symbol this
// cycle", never as fatal.
package market

import (
	"context"

	"github.com/moznion/go-optional"

	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// Source supplies quotes, top movers, news and market status for symbols.
type Source interface {
	// GetQuote returns the latest quote for the symbol, or None when the
	// symbol is unknown or data is temporarily unavailable.
	GetQuote(ctx context.Context, symbol string) (optional.Option[types.Quote], error)

	// GetTopMovers returns up to limit quotes ordered by absolute percentage
	// change, largest first.
	GetTopMovers(ctx context.Context, limit int) ([]types.Quote, error)

	// GetNews returns news items for the given symbols published within the
	// last hoursBack hours. A nil symbols slice means market-wide news.
	GetNews(ctx context.Context, symbols []string, hoursBack int) ([]types.NewsItem, error)

	// GetMarketStatus reports whether the market is open.
	GetMarketStatus(ctx context.Context) (types.MarketStatus, error)

	// GetMarketSentiment derives an aggregate sentiment for a symbol.
	GetMarketSentiment(ctx context.Context, symbol string) (types.SentimentReading, error)
}
