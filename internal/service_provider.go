package internal

import (
	"fmt"
	"os"

	"github.com/finsim/analysis/config"
	"github.com/finsim/analysis/internal/clients"
	"github.com/finsim/analysis/internal/services/pricer"
)

const defaultHyperliquidAPIURL = "https://api.hyperliquid.xyz"

// newPriceSource builds the platform-specific price source. This is the
// single point of truth for dispatching to platform implementations.
//
// Live platforms read their credentials from the environment:
//
//	Binance: BINANCE_API_KEY, BINANCE_API_SECRET (optional, prices are public)
//	Bybit: BYBIT_API_KEY, BYBIT_API_SECRET (optional, prices are public)
//	Hyperliquid: HYPERLIQUID_PRIVATE_KEY (required), HYPERLIQUID_API_URL
func newPriceSource(cfg *config.Config) (pricer.PriceSource, error) {
	switch cfg.Platform {
	case "static":
		return pricer.NewStaticPricer(cfg.StaticPrices), nil
	case "binance":
		client := clients.NewBinanceClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))
		return pricer.NewBinancePricer(client), nil
	case "bybit":
		client := clients.NewBybitClient(os.Getenv("BYBIT_API_KEY"), os.Getenv("BYBIT_API_SECRET"))
		return pricer.NewBybitPricer(client), nil
	case "hyperliquid":
		key := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if key == "" {
			return nil, fmt.Errorf("HYPERLIQUID_PRIVATE_KEY environment variable must be set")
		}
		apiURL := os.Getenv("HYPERLIQUID_API_URL")
		if apiURL == "" {
			apiURL = defaultHyperliquidAPIURL
		}
		client, err := clients.NewHyperliquidClient(key, apiURL)
		if err != nil {
			return nil, err
		}
		return pricer.NewHyperliquidPricer(client.Info()), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", cfg.Platform)
	}
}
