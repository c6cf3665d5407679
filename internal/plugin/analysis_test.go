package plugin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/events"
	"github.com/finsim/analysis/internal/simulation"
)

func TestInstallValidates(t *testing.T) {
	account, err := simulation.NewAccount("sim", decimal.NewFromInt(1000))
	require.NoError(t, err)
	rt, err := simulation.NewRuntime([]*simulation.Account{account}, zap.NewNop())
	require.NoError(t, err)

	_, err = Install(context.Background(), rt, Config{Benchmark: domain.Benchmark{"AAA": 1}}, nil, nil, zap.NewNop())
	require.Error(t, err)

	orderBus := events.NewOrderBroadcaster(8)
	tradeBus := events.NewTransactionBroadcaster(8)
	_, err = Install(context.Background(), rt, Config{Benchmark: domain.Benchmark{}}, orderBus, tradeBus, zap.NewNop())
	require.Error(t, err)
}

func TestInstallCollectUninstallRoundTrip(t *testing.T) {
	account, err := simulation.NewAccount("sim", decimal.NewFromInt(1000))
	require.NoError(t, err)
	rt, err := simulation.NewRuntime([]*simulation.Account{account}, zap.NewNop(),
		simulation.WithClock(func() int64 { return 1700000000000 }))
	require.NoError(t, err)
	rt.SetPrice("AAA", decimal.NewFromInt(100))

	orderBus := events.NewOrderBroadcaster(8)
	tradeBus := events.NewTransactionBroadcaster(8)
	broker, err := simulation.NewBroker(rt, orderBus, tradeBus, decimal.Zero, zap.NewNop())
	require.NoError(t, err)

	handle, err := Install(context.Background(), rt, Config{
		Benchmark:       domain.Benchmark{"AAA": 1},
		CollectInterval: time.Hour, // never fires during the test, ticks are manual
	}, orderBus, tradeBus, zap.NewNop())
	require.NoError(t, err)

	order, err := broker.SubmitMarketOrder(account.ID(), "AAA", domain.SideBuy, domain.PositionEffectOpen, decimal.NewFromInt(2))
	require.NoError(t, err)

	// event consumption is asynchronous
	require.Eventually(t, func() bool {
		return handle.Analyser().Store().OrderCount() == 1 &&
			handle.Analyser().Store().TransactionCount() == 1
	}, time.Second, 5*time.Millisecond)

	handle.CollectNow()

	snap := handle.Uninstall()
	require.Len(t, snap.PortfolioNetValue, 1)
	assert.True(t, snap.PortfolioNetValue[0].Equal(decimal.NewFromInt(1000)))
	assert.True(t, snap.BenchmarkNetValue[0].Equal(decimal.NewFromInt(100)))
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, order.ID, snap.Orders[0].ID)
	require.Len(t, snap.Transactions, 1)
	require.Len(t, snap.Accounts["sim"], 1)
	require.Len(t, snap.Positions[1700000000000], 1)

	// idempotent teardown
	again := handle.Uninstall()
	require.Len(t, again.PortfolioNetValue, 1)
}
