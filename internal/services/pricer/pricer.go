// Package pricer provides the price sources that feed the simulation
// runtime's price table.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource fetches the current market price for an instrument code.
type PriceSource interface {
	GetPrice(ctx context.Context, code string) (decimal.Decimal, error)
}
