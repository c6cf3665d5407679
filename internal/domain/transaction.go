package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single fill. Unlike orders, transactions are immutable
// once created.
type Transaction struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	OrderID        uuid.UUID
	SecondaryID    string
	Code           string
	Side           Side
	PositionEffect PositionEffect

	Price              decimal.Decimal
	FrozenPrice        decimal.Decimal
	Amount             decimal.Decimal
	CloseLimitedAmount decimal.Decimal
	Commission         decimal.Decimal
	Tax                decimal.Decimal

	CreatedAt int64
}

// Direction derives the exposure direction the fill affects.
func (t *Transaction) Direction() Direction {
	if t.PositionEffect == PositionEffectClose {
		if t.Side == SideSell {
			return DirectionLong
		}
		return DirectionShort
	}
	if t.Side == SideBuy {
		return DirectionLong
	}
	return DirectionShort
}
