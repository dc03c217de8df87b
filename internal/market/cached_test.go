package market

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/ajseidenfrau/NVSTWZ/internal/types"
)

// countingSource is a Source stub that counts calls and can fail a fixed
// number of times before succeeding.
type countingSource struct {
	quoteCalls   int
	failuresLeft int
	quote        types.Quote
}

func (c *countingSource) GetQuote(ctx context.Context, symbol string) (optional.Option[types.Quote], error) {
	c.quoteCalls++
	if c.failuresLeft > 0 {
		c.failuresLeft--

		return optional.None[types.Quote](), fmt.Errorf("transient fetch failure")
	}

	return optional.Some(c.quote), nil
}

func (c *countingSource) GetTopMovers(ctx context.Context, limit int) ([]types.Quote, error) {
	return []types.Quote{c.quote}, nil
}

func (c *countingSource) GetNews(ctx context.Context, symbols []string, hoursBack int) ([]types.NewsItem, error) {
	return nil, nil
}

func (c *countingSource) GetMarketStatus(ctx context.Context) (types.MarketStatus, error) {
	return types.MarketStatus{IsOpen: true}, nil
}

func (c *countingSource) GetMarketSentiment(ctx context.Context, symbol string) (types.SentimentReading, error) {
	return types.SentimentReading{Symbol: symbol, Sentiment: types.SentimentNeutral, Confidence: 0.5}, nil
}

type CachedSourceTestSuite struct {
	suite.Suite
	underlying *countingSource
	cached     *CachedSource
	clock      time.Time
}

func TestCachedSourceSuite(t *testing.T) {
	suite.Run(t, new(CachedSourceTestSuite))
}

func (suite *CachedSourceTestSuite) SetupTest() {
	suite.underlying = &countingSource{
		quote: types.Quote{Symbol: "AAPL", Price: 150.0, Volume: 2_000_000},
	}
	suite.cached = NewCachedSource(suite.underlying, 60*time.Second)
	suite.clock = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	suite.cached.now = func() time.Time { return suite.clock }
}

func (suite *CachedSourceTestSuite) TestCacheHitWithinTTL() {
	ctx := context.Background()

	quote, err := suite.cached.GetQuote(ctx, "AAPL")
	suite.Require().NoError(err)
	suite.True(quote.IsSome())
	suite.Equal(1, suite.underlying.quoteCalls)

	// Second read within the TTL does not touch the underlying source.
	suite.clock = suite.clock.Add(30 * time.Second)
	_, err = suite.cached.GetQuote(ctx, "AAPL")
	suite.Require().NoError(err)
	suite.Equal(1, suite.underlying.quoteCalls)
}

func (suite *CachedSourceTestSuite) TestCacheExpiry() {
	ctx := context.Background()

	_, err := suite.cached.GetQuote(ctx, "AAPL")
	suite.Require().NoError(err)

	suite.clock = suite.clock.Add(61 * time.Second)
	_, err = suite.cached.GetQuote(ctx, "AAPL")
	suite.Require().NoError(err)
	suite.Equal(2, suite.underlying.quoteCalls)
}

func (suite *CachedSourceTestSuite) TestClearCache() {
	ctx := context.Background()

	_, err := suite.cached.GetQuote(ctx, "AAPL")
	suite.Require().NoError(err)

	suite.cached.ClearCache()

	_, err = suite.cached.GetQuote(ctx, "AAPL")
	suite.Require().NoError(err)
	suite.Equal(2, suite.underlying.quoteCalls)
}

func (suite *CachedSourceTestSuite) TestRetryOnTransientFailure() {
	suite.underlying.failuresLeft = 2

	quote, err := suite.cached.GetQuote(context.Background(), "AAPL")
	suite.Require().NoError(err)
	suite.True(quote.IsSome())
	suite.Equal(3, suite.underlying.quoteCalls)
}

func (suite *CachedSourceTestSuite) TestRetryExhausted() {
	suite.underlying.failuresLeft = 10

	_, err := suite.cached.GetQuote(context.Background(), "AAPL")
	suite.Error(err)
}
