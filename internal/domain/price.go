package domain

import "github.com/shopspring/decimal"

// PriceRecord last known price of an instrument.
type PriceRecord struct {
	Code      string          `json:"code"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}
