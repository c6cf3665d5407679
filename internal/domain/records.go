package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The record types below are immutable projections of live state. Their JSON
// field names are the persisted-state contract consumed by downstream
// reporting and must not change.

// AccountRecord snapshot of one account at one instant.
type AccountRecord struct {
	Name            string          `json:"name"`
	ID              uuid.UUID       `json:"id"`
	AvailableCash   decimal.Decimal `json:"available_cash"`
	FrozenCash      decimal.Decimal `json:"frozen_cash"`
	MarketValue     decimal.Decimal `json:"market_value"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TransactionCost decimal.Decimal `json:"transaction_cost"`
	UpdatedAt       string          `json:"updated_at"`
	Timestamp       int64           `json:"timestamp"`
}

// PositionRecord snapshot of one position at one instant, tagged with the
// owning account id.
type PositionRecord struct {
	AccountID       uuid.UUID       `json:"account_id"`
	Code            string          `json:"code"`
	Direction       Direction       `json:"direction"`
	AvgPrice        decimal.Decimal `json:"avg_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	ClosableLimited decimal.Decimal `json:"closable_limited"`
	Closable        decimal.Decimal `json:"closable"`
	MarketValue     decimal.Decimal `json:"market_value"`
	TransactionCost decimal.Decimal `json:"transaction_cost"`
	UpdatedAt       string          `json:"updated_at"`
	Timestamp       int64           `json:"timestamp"`
}

// OrderRecord projection of a live order. Identity is the order id alone:
// the mutable fill fields are captured once, at projection time.
type OrderRecord struct {
	ID             uuid.UUID      `json:"id"`
	AccountID      uuid.UUID      `json:"account_id"`
	SecondaryID    string         `json:"secondary_id"`
	Tag            string         `json:"tag"`
	Code           string         `json:"code"`
	Side           Side           `json:"side"`
	PositionEffect PositionEffect `json:"position_effect"`
	Direction      Direction      `json:"direction"`

	FrozenPrice     decimal.Decimal `json:"frozen_price"`
	InitFrozenCash  decimal.Decimal `json:"init_frozen_cash"`
	AvgPrice        decimal.Decimal `json:"avg_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	FilledQuantity  decimal.Decimal `json:"filled_quantity"`
	TransactionCost decimal.Decimal `json:"transaction_cost"`

	CreatedAtTS int64  `json:"created_at_ts"`
	UpdatedAtTS int64  `json:"updated_at_ts"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// NewOrderRecord captures the order's current state.
func NewOrderRecord(o *Order) OrderRecord {
	return OrderRecord{
		ID:              o.ID,
		AccountID:       o.AccountID,
		SecondaryID:     o.SecondaryID,
		Tag:             o.Tag,
		Code:            o.Code,
		Side:            o.Side,
		PositionEffect:  o.PositionEffect,
		Direction:       o.Direction(),
		FrozenPrice:     o.FrozenPrice,
		InitFrozenCash:  o.InitFrozenCash,
		AvgPrice:        o.AvgPrice,
		Quantity:        o.Quantity,
		FilledQuantity:  o.FilledQuantity,
		TransactionCost: o.TransactionCost,
		CreatedAtTS:     o.CreatedAt,
		UpdatedAtTS:     o.UpdatedAt,
		CreatedAt:       FormatTimestamp(o.CreatedAt),
		UpdatedAt:       FormatTimestamp(o.UpdatedAt),
	}
}

// TransactionRecord projection of a fill. Identity is the transaction id
// alone.
type TransactionRecord struct {
	ID             uuid.UUID      `json:"id"`
	AccountID      uuid.UUID      `json:"account_id"`
	OrderID        uuid.UUID      `json:"order_id"`
	SecondaryID    string         `json:"secondary_id"`
	Code           string         `json:"code"`
	Side           Side           `json:"side"`
	PositionEffect PositionEffect `json:"position_effect"`
	Direction      Direction      `json:"direction"`

	Price              decimal.Decimal `json:"price"`
	FrozenPrice        decimal.Decimal `json:"frozen_price"`
	Amount             decimal.Decimal `json:"amount"`
	CloseLimitedAmount decimal.Decimal `json:"close_limited_amount"`
	Commission         decimal.Decimal `json:"commission"`
	Tax                decimal.Decimal `json:"tax"`

	CreatedAt   string `json:"created_at"`
	CreatedAtTS int64  `json:"created_at_ts"`
}

// NewTransactionRecord projects a fill into its serializable form.
func NewTransactionRecord(t *Transaction) TransactionRecord {
	return TransactionRecord{
		ID:                 t.ID,
		AccountID:          t.AccountID,
		OrderID:            t.OrderID,
		SecondaryID:        t.SecondaryID,
		Code:               t.Code,
		Side:               t.Side,
		PositionEffect:     t.PositionEffect,
		Direction:          t.Direction(),
		Price:              t.Price,
		FrozenPrice:        t.FrozenPrice,
		Amount:             t.Amount,
		CloseLimitedAmount: t.CloseLimitedAmount,
		Commission:         t.Commission,
		Tax:                t.Tax,
		CreatedAt:          FormatTimestamp(t.CreatedAt),
		CreatedAtTS:        t.CreatedAt,
	}
}
