// Command bot runs the simulated trading bot until interrupted. On SIGINT or
// SIGTERM it closes every open position before exiting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/bot"
	"github.com/ajseidenfrau/NVSTWZ/internal/config"
	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
	"github.com/ajseidenfrau/NVSTWZ/internal/market"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file")
	printSchema := flag.Bool("print-schema", false, "Print the config JSON schema and exit")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for the simulated market")
	flag.Parse()

	if *printSchema {
		var cfg config.Config

		schema, err := cfg.GenerateSchemaJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate schema: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(schema)

		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLoggerWithLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	source := market.NewCachedSource(
		market.NewSimulatedSource(market.SimulatedSourceConfig{
			Volatility:   market.DefaultVolatility,
			HistoryLimit: market.DefaultHistoryLimit,
			MarketOpen:   cfg.Trading.MarketOpen,
			MarketClose:  cfg.Trading.MarketClose,
		}, *seed, log),
		market.DefaultQuoteTTL,
	)

	b := bot.New(cfg, source, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var server *bot.StatusServer
	if cfg.Server.StatusAddr != "" {
		server = bot.NewStatusServer(b, cfg.Server.StatusAddr, log)
		go server.Start()
	}

	if err := b.Run(ctx); err != nil {
		log.Error("Bot exited with error", zap.Error(err))
		os.Exit(1)
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("Status server shutdown failed", zap.Error(err))
		}
	}
}
