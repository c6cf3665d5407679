package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a live order owned by the execution side of the runtime. Fill
// state (AvgPrice, FilledQuantity, TransactionCost, UpdatedAt) mutates while
// the order works; consumers that need a stable view must project it into an
// OrderRecord.
type Order struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	SecondaryID    string
	Tag            string
	Code           string
	Side           Side
	PositionEffect PositionEffect

	FrozenPrice     decimal.Decimal
	InitFrozenCash  decimal.Decimal
	AvgPrice        decimal.Decimal
	Quantity        decimal.Decimal
	FilledQuantity  decimal.Decimal
	TransactionCost decimal.Decimal

	CreatedAt int64
	UpdatedAt int64
}

// Direction derives the exposure direction the order affects: opening buys
// and closing sells act on long exposure, the other two on short.
func (o *Order) Direction() Direction {
	if o.PositionEffect == PositionEffectClose {
		if o.Side == SideSell {
			return DirectionLong
		}
		return DirectionShort
	}
	if o.Side == SideBuy {
		return DirectionLong
	}
	return DirectionShort
}
