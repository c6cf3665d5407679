package pricer

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
)

// BinancePricer fetches market prices from the Binance public API without
// requiring authentication.
type BinancePricer struct {
	client *binance.Client
}

// NewBinancePricer creates a Binance-backed price source.
func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

// GetPrice fetches the current market price for the symbol.
func (p *BinancePricer) GetPrice(ctx context.Context, code string) (decimal.Decimal, error) {
	prices, err := p.client.NewListPricesService().Symbol(code).Do(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(prices) == 0 {
		return decimal.Decimal{}, fmt.Errorf("binance API returned empty prices for %s", code)
	}

	return decimal.NewFromString(prices[0].Price)
}
