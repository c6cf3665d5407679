// Command analysis runs a trading simulation with the analysis component
// attached and serves the collected net-value series on the dashboard.
// It can be configured via a YAML file, command-line arguments, or the
// interactive setup wizard.
//
// Usage:
//
//	analysis --config config.yaml
//	analysis --platform static --benchmark BTCUSDT:2,ETHUSDT:1 --accounts sim:10000
//	analysis setup (interactive wizard, writes config.gen.yaml)
//
// Environment variables for live price sources:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET (optional)
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET (optional)
//	For Hyperliquid: HYPERLIQUID_PRIVATE_KEY (required), HYPERLIQUID_API_URL
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/finsim/analysis/config"
	"github.com/finsim/analysis/internal"
	"github.com/finsim/analysis/internal/setup"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		os.Args = []string{os.Args[0], "--config", setup.GeneratedConfigFile}
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app, err := internal.NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}
