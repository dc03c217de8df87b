package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ajseidenfrau/NVSTWZ/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg := Default()
	suite.NoError(cfg.Validate())
	suite.InDelta(10.00, cfg.Trading.InitialCapital, 1e-9)
	suite.Equal(50, cfg.Trading.MaxDailyTrades)
	suite.InDelta(0.7, cfg.Strategy.MinConfidence, 1e-9)
	suite.InDelta(0.02, cfg.Strategy.StopLoss, 1e-9)
	suite.InDelta(0.05, cfg.Strategy.ProfitTarget, 1e-9)
}

func (suite *ConfigTestSuite) TestLoadFromYAML() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
trading:
  initial_capital: 25000
  max_daily_trades: 10
strategy:
  min_confidence: 0.6
`
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.InDelta(25000.0, cfg.Trading.InitialCapital, 1e-9)
	suite.Equal(10, cfg.Trading.MaxDailyTrades)
	suite.InDelta(0.6, cfg.Strategy.MinConfidence, 1e-9)

	// Values absent from the file keep their defaults.
	suite.Equal("09:30", cfg.Trading.MarketOpen)
	suite.InDelta(0.02, cfg.Strategy.StopLoss, 1e-9)
}

func (suite *ConfigTestSuite) TestEnvOverride() {
	suite.T().Setenv("NVSTWZ_TRADING_INITIAL_CAPITAL", "500")
	suite.T().Setenv("NVSTWZ_LOG_LEVEL", "debug")

	cfg, err := Load("")
	suite.Require().NoError(err)
	suite.InDelta(500.0, cfg.Trading.InitialCapital, 1e-9)
	suite.Equal("debug", cfg.Log.Level)
}

func (suite *ConfigTestSuite) TestValidationFailures() {
	cfg := Default()
	cfg.Trading.InitialCapital = 0
	err := cfg.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	cfg = Default()
	cfg.Trading.MarketOpen = "16:30"
	cfg.Trading.MarketClose = "09:30"
	suite.Error(cfg.Validate())

	cfg = Default()
	cfg.Trading.MarketOpen = "not-a-time"
	suite.Error(cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "verbose"
	suite.Error(cfg.Validate())
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load("/nonexistent/config.yaml")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	cfg := Default()
	schema, err := cfg.GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schema, "nvstwz-config")

	// Properties use the config-file keys, not Go field names.
	suite.Contains(schema, "initial_capital")
	suite.Contains(schema, "max_daily_loss")
	suite.Contains(schema, "status_addr")
	suite.NotContains(schema, "InitialCapital")
}
