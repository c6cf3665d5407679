package pricer

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// StaticPricer serves prices from an in-memory table. Used for offline runs
// and tests; Set may be called concurrently with GetPrice.
type StaticPricer struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStaticPricer creates a static price source seeded with the given table.
func NewStaticPricer(prices map[string]decimal.Decimal) *StaticPricer {
	table := make(map[string]decimal.Decimal, len(prices))
	for code, price := range prices {
		table[code] = price
	}
	return &StaticPricer{prices: table}
}

// Set updates the price for a code.
func (p *StaticPricer) Set(code string, price decimal.Decimal) {
	p.mu.Lock()
	p.prices[code] = price
	p.mu.Unlock()
}

// GetPrice returns the stored price for the code.
func (p *StaticPricer) GetPrice(_ context.Context, code string) (decimal.Decimal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	price, ok := p.prices[code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no static price for %s", code)
	}
	return price, nil
}
