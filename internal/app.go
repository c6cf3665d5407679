// Package internal wires the simulation runtime, the market price feed and
// the analysis component into a runnable application.
package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finsim/analysis/config"
	"github.com/finsim/analysis/dashboard"
	"github.com/finsim/analysis/internal/events"
	"github.com/finsim/analysis/internal/plugin"
	"github.com/finsim/analysis/internal/services/pricer"
	"github.com/finsim/analysis/internal/simulation"
	"github.com/finsim/analysis/internal/storage/snapshots"
)

const eventBufferSize = 64

// App owns the simulation runtime, the price feed loop, the analysis
// component and the optional dashboard for a single run.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	rt       *simulation.Runtime
	broker   *simulation.Broker
	source   pricer.PriceSource
	orderBus *events.OrderBroadcaster
	tradeBus *events.TransactionBroadcaster
}

// NewApp builds the runtime from the configured accounts and resolves the
// platform price source.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	accounts := make([]*simulation.Account, 0, len(cfg.Accounts))
	for _, ac := range cfg.Accounts {
		account, err := simulation.NewAccount(ac.Name, ac.Cash)
		if err != nil {
			return nil, errors.Wrapf(err, "create account %s", ac.Name)
		}
		accounts = append(accounts, account)
	}

	rt, err := simulation.NewRuntime(accounts, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create runtime")
	}

	source, err := newPriceSource(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create price source")
	}

	orderBus := events.NewOrderBroadcaster(eventBufferSize)
	tradeBus := events.NewTransactionBroadcaster(eventBufferSize)

	broker, err := simulation.NewBroker(rt, orderBus, tradeBus, cfg.CommissionRate, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create broker")
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		rt:       rt,
		broker:   broker,
		source:   source,
		orderBus: orderBus,
		tradeBus: tradeBus,
	}, nil
}

// Runtime exposes the simulation runtime to host code driving the run.
func (a *App) Runtime() *simulation.Runtime { return a.rt }

// Broker exposes the order entry point to host code driving the run.
func (a *App) Broker() *simulation.Broker { return a.broker }

// Run starts the analysis component, the price feed loop and the dashboard,
// then blocks until the context is cancelled. The final snapshot is
// persisted to the WAL on the way out.
func (a *App) Run(ctx context.Context) error {
	// seed the price table before the first collection tick
	a.rt.RefreshPrices(ctx, a.source, a.cfg.Instruments)

	store, err := snapshots.NewWALStore(a.cfg.SnapshotDir)
	if err != nil {
		return errors.Wrap(err, "open snapshot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("close snapshot store", zap.Error(err))
		}
	}()

	handle, err := plugin.Install(ctx, a.rt, plugin.Config{
		Benchmark:       a.cfg.Benchmark,
		CollectInterval: a.cfg.CollectInterval,
	}, a.orderBus, a.tradeBus, a.logger)
	if err != nil {
		return errors.Wrap(err, "install analysis")
	}

	if a.cfg.DashboardAddr != "" {
		server := dashboard.NewServer(a.cfg.DashboardAddr, store, handle.Analyser())
		go func() {
			if err := server.Start(ctx); err != nil {
				a.logger.Error("dashboard server stopped", zap.Error(err))
			}
		}()
		a.logger.Info("dashboard started", zap.String("addr", a.cfg.DashboardAddr))
	}

	ticker := time.NewTicker(a.cfg.PricePollInterval)
	defer ticker.Stop()

	a.logger.Info("run started",
		zap.String("platform", a.cfg.Platform),
		zap.Strings("instruments", a.cfg.Instruments),
		zap.Duration("poll_interval", a.cfg.PricePollInterval))

	for {
		select {
		case <-ctx.Done():
			snapshot := handle.Uninstall()
			if err := store.Save(snapshot); err != nil {
				return errors.Wrap(err, "persist final snapshot")
			}
			a.logger.Info("run finished",
				zap.Int("series_points", len(snapshot.PortfolioNetValue)),
				zap.Int("orders", len(snapshot.Orders)),
				zap.Int("transactions", len(snapshot.Transactions)))
			return nil
		case <-ticker.C:
			a.rt.RefreshPrices(ctx, a.source, a.cfg.Instruments)
		}
	}
}
