package pricer

import (
	"context"
	"fmt"

	"github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"
)

// BybitPricer fetches spot prices from the Bybit V5 market API.
type BybitPricer struct {
	client *bybit.Client
}

// NewBybitPricer creates a Bybit-backed price source.
func NewBybitPricer(client *bybit.Client) *BybitPricer {
	return &BybitPricer{client: client}
}

// GetPrice fetches the last traded spot price for the symbol.
func (p *BybitPricer) GetPrice(_ context.Context, code string) (decimal.Decimal, error) {
	symbol := bybit.SymbolV5(code)

	result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
		Symbol:   &symbol,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	if len(result.Result.Spot.List) == 0 {
		return decimal.Decimal{}, fmt.Errorf("bybit API returned empty prices for %s", code)
	}

	return decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
}
