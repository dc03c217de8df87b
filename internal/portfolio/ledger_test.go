package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/types"
	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

// quoteSource serves canned quotes for repricing tests.
type quoteSource struct {
	quotes map[string]float64
	err    error
}

func (s *quoteSource) GetQuote(ctx context.Context, symbol string) (optional.Option[types.Quote], error) {
	if s.err != nil {
		return optional.None[types.Quote](), s.err
	}

	price, ok := s.quotes[symbol]
	if !ok {
		return optional.None[types.Quote](), nil
	}

	return optional.Some(types.Quote{Symbol: symbol, Price: price}), nil
}

func (s *quoteSource) GetTopMovers(ctx context.Context, limit int) ([]types.Quote, error) {
	return nil, nil
}

func (s *quoteSource) GetNews(ctx context.Context, symbols []string, hoursBack int) ([]types.NewsItem, error) {
	return nil, nil
}

func (s *quoteSource) GetMarketStatus(ctx context.Context) (types.MarketStatus, error) {
	return types.MarketStatus{}, nil
}

func (s *quoteSource) GetMarketSentiment(ctx context.Context, symbol string) (types.SentimentReading, error) {
	return types.SentimentReading{}, nil
}

type LedgerTestSuite struct {
	suite.Suite
	ledger *Ledger
	at     time.Time
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.ledger = NewLedger(10_000, logger.NewNopLogger())
	suite.at = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
}

func (suite *LedgerTestSuite) TestBuyDebitsCashAndOpensPosition() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))

	suite.InDelta(8_500, suite.ledger.CashBalance(), 1e-9)

	pos, ok := suite.ledger.Position("AAPL")
	suite.Require().True(ok)
	suite.InDelta(10, pos.Quantity, 1e-9)
	suite.InDelta(150, pos.AveragePrice, 1e-9)
	suite.InDelta(1_500, pos.MarketValue, 1e-9)
}

func (suite *LedgerTestSuite) TestBuyMergesWeightedAverage() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 160, suite.at))

	pos, ok := suite.ledger.Position("AAPL")
	suite.Require().True(ok)
	suite.InDelta(20, pos.Quantity, 1e-9)
	suite.InDelta(155, pos.AveragePrice, 1e-9)
	suite.InDelta(6_900, suite.ledger.CashBalance(), 1e-9)
}

func (suite *LedgerTestSuite) TestBuyRefusedBeyondCash() {
	err := suite.ledger.Buy("GOOGL", 4, 2_800, suite.at)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInsufficientCash, errors.GetCode(err))

	// Nothing changed.
	suite.InDelta(10_000, suite.ledger.CashBalance(), 1e-9)
	suite.Empty(suite.ledger.OpenSymbols())
}

func (suite *LedgerTestSuite) TestBuyRejectsBadArguments() {
	err := suite.ledger.Buy("AAPL", 0, 150, suite.at)
	suite.Equal(errors.ErrCodeInvalidQuantity, errors.GetCode(err))

	err = suite.ledger.Buy("AAPL", 10, -1, suite.at)
	suite.Equal(errors.ErrCodeInvalidPrice, errors.GetCode(err))
}

func (suite *LedgerTestSuite) TestSellBooksRealizedPnL() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))
	suite.Require().NoError(suite.ledger.Sell("AAPL", 4, 160, suite.at))

	// Cash back: 10000 - 1500 + 640.
	suite.InDelta(9_140, suite.ledger.CashBalance(), 1e-9)

	pos, ok := suite.ledger.Position("AAPL")
	suite.Require().True(ok)
	suite.InDelta(6, pos.Quantity, 1e-9)
	suite.InDelta(40, pos.RealizedPnL, 1e-9)
	// Average entry price is untouched by a partial sell.
	suite.InDelta(150, pos.AveragePrice, 1e-9)
}

func (suite *LedgerTestSuite) TestSellToZeroRemovesPosition() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))
	suite.Require().NoError(suite.ledger.Sell("AAPL", 10, 147, suite.at))

	_, ok := suite.ledger.Position("AAPL")
	suite.False(ok)
	suite.Empty(suite.ledger.OpenSymbols())
	suite.InDelta(9_970, suite.ledger.CashBalance(), 1e-9)

	snapshot := suite.ledger.Snapshot()
	suite.InDelta(-30, snapshot.TotalPnL, 1e-9)
}

func (suite *LedgerTestSuite) TestSellRejectsOversizeAndUnknown() {
	err := suite.ledger.Sell("AAPL", 1, 150, suite.at)
	suite.Equal(errors.ErrCodePositionNotFound, errors.GetCode(err))

	suite.Require().NoError(suite.ledger.Buy("AAPL", 5, 150, suite.at))

	err = suite.ledger.Sell("AAPL", 6, 150, suite.at)
	suite.Equal(errors.ErrCodeInsufficientPosition, errors.GetCode(err))

	pos, _ := suite.ledger.Position("AAPL")
	suite.InDelta(5, pos.Quantity, 1e-9)
}

func (suite *LedgerTestSuite) TestTotalValueInvariant() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))
	suite.Require().NoError(suite.ledger.Buy("MSFT", 5, 300, suite.at))

	source := &quoteSource{quotes: map[string]float64{"AAPL": 147, "MSFT": 310}}
	suite.ledger.UpdatePortfolio(context.Background(), source, suite.at)

	snapshot := suite.ledger.Snapshot()

	invested := 0.0
	for _, pos := range snapshot.Positions {
		invested += pos.MarketValue
	}

	suite.InDelta(snapshot.CashBalance+invested, snapshot.TotalValue, 1e-9)
	suite.InDelta(10*147+5*310, snapshot.InvestedAmount, 1e-9)
}

func (suite *LedgerTestSuite) TestUpdatePortfolioSkipsMissingQuotes() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))
	suite.Require().NoError(suite.ledger.Buy("MSFT", 5, 300, suite.at))

	source := &quoteSource{quotes: map[string]float64{"AAPL": 152}}
	suite.ledger.UpdatePortfolio(context.Background(), source, suite.at.Add(time.Minute))

	aapl, _ := suite.ledger.Position("AAPL")
	suite.InDelta(152, aapl.CurrentPrice, 1e-9)

	// MSFT kept its previous valuation.
	msft, _ := suite.ledger.Position("MSFT")
	suite.InDelta(300, msft.CurrentPrice, 1e-9)
}

func (suite *LedgerTestSuite) TestDailyResetRebasesPnL() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))
	suite.ledger.RepriceSymbol("AAPL", 160, suite.at)

	snapshot := suite.ledger.Snapshot()
	suite.InDelta(100, snapshot.DailyPnL, 1e-9)

	suite.ledger.ResetDaily(suite.at.Add(24 * time.Hour))

	snapshot = suite.ledger.Snapshot()
	suite.InDelta(0, snapshot.DailyPnL, 1e-9)
	// Total P&L keeps measuring against initial capital.
	suite.InDelta(100, snapshot.TotalPnL, 1e-9)
	suite.InDelta(0.01, snapshot.TotalReturn, 1e-9)
}

func (suite *LedgerTestSuite) TestPositionsAreCopies() {
	suite.Require().NoError(suite.ledger.Buy("AAPL", 10, 150, suite.at))

	positions := suite.ledger.Positions()
	positions[0].Quantity = 999

	pos, _ := suite.ledger.Position("AAPL")
	suite.InDelta(10, pos.Quantity, 1e-9)
}
