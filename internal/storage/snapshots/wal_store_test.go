package snapshots

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/services/analyser"
)

func TestWALStoreRoundTrip(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	snap := analyser.Snapshot{
		BenchmarkInstruments: domain.Benchmark{"AAA": 2, "BBB": 1},
		PortfolioNetValue:    []decimal.Decimal{decimal.NewFromInt(500)},
		BenchmarkNetValue:    []decimal.Decimal{decimal.NewFromInt(100)},
		Accounts: map[string][]domain.AccountRecord{
			"sim": {{Name: "sim", ID: uuid.New(), Timestamp: 42}},
		},
		Positions: map[int64][]domain.PositionRecord{
			42: {{Code: "AAA", Direction: domain.DirectionLong}},
		},
		Orders:       []domain.OrderRecord{{ID: uuid.New()}},
		Transactions: []domain.TransactionRecord{{ID: uuid.New()}},
	}

	require.NoError(t, store.Save(snap))
	require.Equal(t, uint64(1), store.CurrentIndex())

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0].Snapshot
	assert.Equal(t, snap.BenchmarkInstruments, got.BenchmarkInstruments)
	require.Len(t, got.PortfolioNetValue, 1)
	assert.True(t, got.PortfolioNetValue[0].Equal(decimal.NewFromInt(500)))
	require.Len(t, got.Positions[42], 1)
	assert.Equal(t, "AAA", got.Positions[42][0].Code)
	assert.Equal(t, snap.Orders[0].ID, got.Orders[0].ID)
}

func TestSnapshotsAfterSkipsSeen(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(analyser.Snapshot{}))
	}

	records, err := store.SnapshotsAfter(2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(3), records[0].Index)

	records, err = store.SnapshotsAfter(3)
	require.NoError(t, err)
	require.Empty(t, records)
}
