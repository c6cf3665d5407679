// Package runtime declares the contract between the analysis core and the
// host that feeds it: a clock, a price oracle and a live account/position
// query surface. The core only reads through these interfaces and never
// holds any of its own locks while doing so.
package runtime

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finsim/analysis/internal/domain"
)

// Runtime is the host-supplied query surface.
type Runtime interface {
	// Now returns the current simulation time in unix milliseconds.
	Now() int64
	// Accounts returns handles for every live account. The result is
	// consistent for the duration of one collection pass.
	Accounts() []Account
	// GetPrice returns the last known price for an instrument, if any.
	GetPrice(code string) (domain.PriceRecord, bool)
}

// Account is a live account handle.
type Account interface {
	Name() string
	ID() uuid.UUID
	AvailableCash() decimal.Decimal
	FrozenCash() decimal.Decimal
	MarketValue() decimal.Decimal
	TotalValue() decimal.Decimal
	TransactionCost() decimal.Decimal
	// Positions enumerates live positions. Filtering is a convenience for
	// callers: the union of the long and short queries equals the
	// unfiltered result.
	Positions(filter domain.DirectionFilter) []Position
}

// Position is a live position handle.
type Position interface {
	Code() string
	Direction() domain.Direction
	AvgPrice() decimal.Decimal
	Quantity() decimal.Decimal
	Closable() decimal.Decimal
	ClosableLimited() decimal.Decimal
	MarketValue() decimal.Decimal
	TransactionCost() decimal.Decimal
}
