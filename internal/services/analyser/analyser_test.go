package analyser

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/runtime"
)

type fakePosition struct {
	code      string
	direction domain.Direction
	avgPrice  decimal.Decimal
	quantity  decimal.Decimal
	value     decimal.Decimal
}

func (p fakePosition) Code() string                     { return p.code }
func (p fakePosition) Direction() domain.Direction      { return p.direction }
func (p fakePosition) AvgPrice() decimal.Decimal        { return p.avgPrice }
func (p fakePosition) Quantity() decimal.Decimal        { return p.quantity }
func (p fakePosition) Closable() decimal.Decimal        { return p.quantity }
func (p fakePosition) ClosableLimited() decimal.Decimal { return p.quantity }
func (p fakePosition) MarketValue() decimal.Decimal     { return p.value }
func (p fakePosition) TransactionCost() decimal.Decimal { return decimal.Zero }

type fakeAccount struct {
	name       string
	id         uuid.UUID
	cash       decimal.Decimal
	totalValue decimal.Decimal
	positions  []fakePosition
}

func (a fakeAccount) Name() string                     { return a.name }
func (a fakeAccount) ID() uuid.UUID                    { return a.id }
func (a fakeAccount) AvailableCash() decimal.Decimal   { return a.cash }
func (a fakeAccount) FrozenCash() decimal.Decimal      { return decimal.Zero }
func (a fakeAccount) MarketValue() decimal.Decimal     { return a.totalValue.Sub(a.cash) }
func (a fakeAccount) TotalValue() decimal.Decimal      { return a.totalValue }
func (a fakeAccount) TransactionCost() decimal.Decimal { return decimal.Zero }

func (a fakeAccount) Positions(filter domain.DirectionFilter) []runtime.Position {
	var out []runtime.Position
	for _, p := range a.positions {
		if filter.Matches(p.direction) {
			out = append(out, p)
		}
	}
	return out
}

type fakeRuntime struct {
	now      int64
	accounts []fakeAccount
	prices   map[string]decimal.Decimal
}

func (r *fakeRuntime) Now() int64 { return r.now }

func (r *fakeRuntime) Accounts() []runtime.Account {
	out := make([]runtime.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out
}

func (r *fakeRuntime) GetPrice(code string) (domain.PriceRecord, bool) {
	price, ok := r.prices[code]
	if !ok {
		return domain.PriceRecord{}, false
	}
	return domain.PriceRecord{Code: code, Price: price, Timestamp: r.now}, true
}

func TestNewRejectsDegenerateBenchmark(t *testing.T) {
	rt := &fakeRuntime{}

	_, err := New(rt, domain.Benchmark{}, zap.NewNop())
	require.Error(t, err)

	_, err = New(rt, domain.Benchmark{"AAA": 0, "BBB": 0}, zap.NewNop())
	require.Error(t, err)

	_, err = New(nil, domain.Benchmark{"AAA": 1}, zap.NewNop())
	require.Error(t, err)
}

func TestBenchmarkNetValueWeightedAverage(t *testing.T) {
	rt := &fakeRuntime{prices: map[string]decimal.Decimal{
		"X": decimal.NewFromInt(10),
		"Y": decimal.NewFromInt(20),
	}}
	a, err := New(rt, domain.Benchmark{"X": 2, "Y": 1}, zap.NewNop())
	require.NoError(t, err)

	// (10*2 + 20*1) / 3
	expected := decimal.NewFromInt(40).Div(decimal.NewFromInt(3))
	require.True(t, a.benchmarkNetValue().Equal(expected))
}

func TestBenchmarkMissingPriceKeepsWeightInDenominator(t *testing.T) {
	rt := &fakeRuntime{prices: map[string]decimal.Decimal{
		"X": decimal.NewFromInt(10),
	}}
	a, err := New(rt, domain.Benchmark{"X": 1, "Y": 1}, zap.NewNop())
	require.NoError(t, err)

	// Y has no price: zero numerator contribution, weight still counted.
	require.True(t, a.benchmarkNetValue().Equal(decimal.NewFromInt(5)))
}

func TestCollectDailySingleAccountScenario(t *testing.T) {
	account := fakeAccount{
		name:       "sim",
		id:         uuid.New(),
		cash:       decimal.NewFromInt(500),
		totalValue: decimal.NewFromInt(500),
	}
	rt := &fakeRuntime{
		now:      1700000000000,
		accounts: []fakeAccount{account},
		prices:   map[string]decimal.Decimal{"AAA": decimal.NewFromInt(100)},
	}
	a, err := New(rt, domain.Benchmark{"AAA": 1}, zap.NewNop())
	require.NoError(t, err)

	a.CollectDaily()

	snap := a.Snapshot()
	require.Len(t, snap.PortfolioNetValue, 1)
	require.Len(t, snap.BenchmarkNetValue, 1)
	assert.True(t, snap.PortfolioNetValue[0].Equal(decimal.NewFromInt(500)))
	assert.True(t, snap.BenchmarkNetValue[0].Equal(decimal.NewFromInt(100)))
	require.Len(t, snap.Accounts["sim"], 1)
	assert.Equal(t, account.id, snap.Accounts["sim"][0].ID)
}

func TestCollectDailyGroupsPositionsUnderTickTimestamp(t *testing.T) {
	accA := fakeAccount{
		name: "a", id: uuid.New(),
		cash: decimal.NewFromInt(100), totalValue: decimal.NewFromInt(300),
		positions: []fakePosition{
			{code: "AAA", direction: domain.DirectionLong, avgPrice: decimal.NewFromInt(10), quantity: decimal.NewFromInt(5), value: decimal.NewFromInt(50)},
			{code: "BBB", direction: domain.DirectionShort, avgPrice: decimal.NewFromInt(30), quantity: decimal.NewFromInt(5), value: decimal.NewFromInt(150)},
		},
	}
	accB := fakeAccount{
		name: "b", id: uuid.New(),
		cash: decimal.NewFromInt(200), totalValue: decimal.NewFromInt(200),
		positions: []fakePosition{
			{code: "AAA", direction: domain.DirectionLong, avgPrice: decimal.NewFromInt(12), quantity: decimal.NewFromInt(1), value: decimal.NewFromInt(12)},
		},
	}
	rt := &fakeRuntime{
		now:      42,
		accounts: []fakeAccount{accA, accB},
		prices:   map[string]decimal.Decimal{"AAA": decimal.NewFromInt(10)},
	}
	a, err := New(rt, domain.Benchmark{"AAA": 1}, zap.NewNop())
	require.NoError(t, err)

	a.CollectDaily()

	snap := a.Snapshot()
	require.Len(t, snap.Positions, 1)
	batch := snap.Positions[42]
	require.Len(t, batch, 3)
	byAccount := map[uuid.UUID]int{}
	for _, rec := range batch {
		byAccount[rec.AccountID]++
		assert.Equal(t, int64(42), rec.Timestamp)
	}
	assert.Equal(t, 2, byAccount[accA.id])
	assert.Equal(t, 1, byAccount[accB.id])

	// portfolio is the sum of account total values
	assert.True(t, snap.PortfolioNetValue[0].Equal(decimal.NewFromInt(500)))
}

func TestCollectDailySeriesLengthsStayEqual(t *testing.T) {
	rt := &fakeRuntime{prices: map[string]decimal.Decimal{"AAA": decimal.NewFromInt(1)}}
	a, err := New(rt, domain.Benchmark{"AAA": 1}, zap.NewNop())
	require.NoError(t, err)

	const workers = 4
	const ticksPerWorker = 25
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < ticksPerWorker; j++ {
				a.CollectDaily()
			}
		}()
	}
	wg.Wait()

	snap := a.Snapshot()
	require.Len(t, snap.PortfolioNetValue, workers*ticksPerWorker)
	require.Len(t, snap.BenchmarkNetValue, workers*ticksPerWorker)
}

func TestCollectOrderCapturesFirstDelivery(t *testing.T) {
	rt := &fakeRuntime{prices: map[string]decimal.Decimal{"AAA": decimal.NewFromInt(1)}}
	a, err := New(rt, domain.Benchmark{"AAA": 1}, zap.NewNop())
	require.NoError(t, err)

	order := &domain.Order{
		ID:       uuid.New(),
		Code:     "AAA",
		Side:     domain.SideBuy,
		Quantity: decimal.NewFromInt(100),
	}
	a.CollectOrder(order)

	// the live order keeps filling, the re-fired event must not re-capture
	order.FilledQuantity = decimal.NewFromInt(100)
	a.CollectOrder(order)

	snap := a.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.True(t, snap.Orders[0].FilledQuantity.IsZero())
}

func TestSnapshotFieldNamesAreStable(t *testing.T) {
	rt := &fakeRuntime{
		now:      7,
		accounts: []fakeAccount{{name: "sim", id: uuid.New(), totalValue: decimal.NewFromInt(1)}},
		prices:   map[string]decimal.Decimal{"AAA": decimal.NewFromInt(1)},
	}
	a, err := New(rt, domain.Benchmark{"AAA": 1}, zap.NewNop())
	require.NoError(t, err)
	a.CollectDaily()
	a.CollectTransaction(&domain.Transaction{ID: uuid.New(), Code: "AAA", Side: domain.SideBuy, PositionEffect: domain.PositionEffectOpen})

	raw, err := json.Marshal(a.Snapshot())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"benchmark_instruments",
		"portfolio_net_value",
		"benchmark_net_value",
		"accounts",
		"positions",
		"orders",
		"transactions",
	} {
		assert.Contains(t, decoded, key)
	}
}
