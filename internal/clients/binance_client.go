// Package clients builds the exchange API clients backing the live price
// sources. Price queries hit public endpoints, so empty credentials are
// acceptable everywhere here.
package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient creates a Binance REST client.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}
