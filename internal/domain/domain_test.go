package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDirection(t *testing.T) {
	tests := []struct {
		name     string
		side     Side
		effect   PositionEffect
		expected Direction
	}{
		{name: "open buy is long", side: SideBuy, effect: PositionEffectOpen, expected: DirectionLong},
		{name: "open sell is short", side: SideSell, effect: PositionEffectOpen, expected: DirectionShort},
		{name: "close sell unwinds long", side: SideSell, effect: PositionEffectClose, expected: DirectionLong},
		{name: "close buy unwinds short", side: SideBuy, effect: PositionEffectClose, expected: DirectionShort},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := &Order{Side: tc.side, PositionEffect: tc.effect}
			assert.Equal(t, tc.expected, o.Direction())

			tx := &Transaction{Side: tc.side, PositionEffect: tc.effect}
			assert.Equal(t, tc.expected, tx.Direction())
		})
	}
}

func TestBenchmarkValidate(t *testing.T) {
	require.Error(t, Benchmark{}.Validate())
	require.Error(t, Benchmark{"AAA": 0}.Validate())
	require.Error(t, Benchmark{"AAA": -1, "BBB": 2}.Validate())
	require.NoError(t, Benchmark{"AAA": 2, "BBB": 0}.Validate())
}

func TestBenchmarkCloneIsIndependent(t *testing.T) {
	original := Benchmark{"AAA": 1}
	clone := original.Clone()
	clone["BBB"] = 2

	require.Len(t, original, 1)
	require.Len(t, clone, 2)
}

func TestDirectionFilterMatches(t *testing.T) {
	assert.True(t, DirectionFilterAll.Matches(DirectionLong))
	assert.True(t, DirectionFilterAll.Matches(DirectionShort))
	assert.True(t, DirectionFilterLong.Matches(DirectionLong))
	assert.False(t, DirectionFilterLong.Matches(DirectionShort))
	assert.True(t, DirectionFilterShort.Matches(DirectionShort))
	assert.False(t, DirectionFilterShort.Matches(DirectionLong))
}

func TestNewOrderRecordCapturesFillState(t *testing.T) {
	o := &Order{
		ID:             uuid.New(),
		AccountID:      uuid.New(),
		Code:           "AAA",
		Side:           SideBuy,
		PositionEffect: PositionEffectOpen,
		Quantity:       decimal.NewFromInt(100),
		FilledQuantity: decimal.NewFromInt(40),
		AvgPrice:       decimal.NewFromFloat(9.5),
		CreatedAt:      1700000000000,
		UpdatedAt:      1700000005000,
	}

	rec := NewOrderRecord(o)
	assert.Equal(t, o.ID, rec.ID)
	assert.Equal(t, DirectionLong, rec.Direction)
	assert.True(t, rec.FilledQuantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, o.CreatedAt, rec.CreatedAtTS)
	assert.Equal(t, FormatTimestamp(o.UpdatedAt), rec.UpdatedAt)

	// the record is a capture, later order mutations do not leak in
	o.FilledQuantity = decimal.NewFromInt(100)
	assert.True(t, rec.FilledQuantity.Equal(decimal.NewFromInt(40)))
}

func TestNewTransactionRecord(t *testing.T) {
	tx := &Transaction{
		ID:             uuid.New(),
		OrderID:        uuid.New(),
		Code:           "BBB",
		Side:           SideSell,
		PositionEffect: PositionEffectClose,
		Price:          decimal.NewFromInt(20),
		Amount:         decimal.NewFromInt(3),
		Commission:     decimal.NewFromFloat(0.06),
		CreatedAt:      1700000000000,
	}

	rec := NewTransactionRecord(tx)
	assert.Equal(t, tx.ID, rec.ID)
	assert.Equal(t, tx.OrderID, rec.OrderID)
	assert.Equal(t, DirectionLong, rec.Direction)
	assert.Equal(t, tx.CreatedAt, rec.CreatedAtTS)
	assert.Equal(t, FormatTimestamp(tx.CreatedAt), rec.CreatedAt)
}
