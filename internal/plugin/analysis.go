// Package plugin owns the analysis component's lifecycle inside a host
// process: Install builds the analyser and starts the consumer and scheduler
// goroutines, Uninstall stops them and hands the final snapshot back to the
// caller. There is no global state; the returned handle is the only way in.
package plugin

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/events"
	"github.com/finsim/analysis/internal/runtime"
	"github.com/finsim/analysis/internal/scheduler"
	"github.com/finsim/analysis/internal/services/analyser"
)

// DefaultCollectInterval is used when the config does not set one,
// standing in for the original daily cron default.
const DefaultCollectInterval = 24 * time.Hour

// Config is the slice of host configuration the analysis component needs.
type Config struct {
	Benchmark       domain.Benchmark
	CollectInterval time.Duration
}

// Analysis is the installed component handle.
type Analysis struct {
	analyser *analyser.Analyser
	logger   *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped sync.Once

	orderBus *events.OrderBroadcaster
	tradeBus *events.TransactionBroadcaster
	orderCh  chan *domain.Order
	tradeCh  chan *domain.Transaction
}

// Install builds the analyser, subscribes it to both event buses and starts
// the collection scheduler. The component stays active until Uninstall.
func Install(ctx context.Context, rt runtime.Runtime, cfg Config,
	orderBus *events.OrderBroadcaster, tradeBus *events.TransactionBroadcaster,
	logger *zap.Logger) (*Analysis, error) {
	if orderBus == nil || tradeBus == nil {
		return nil, errors.New("order and transaction buses are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval <= 0 {
		interval = DefaultCollectInterval
	}

	an, err := analyser.New(rt, cfg.Benchmark, logger)
	if err != nil {
		return nil, errors.Wrap(err, "build analyser")
	}

	sched, err := scheduler.New(interval, an.CollectDaily, logger)
	if err != nil {
		return nil, errors.Wrap(err, "build scheduler")
	}

	runCtx, cancel := context.WithCancel(ctx)
	a := &Analysis{
		analyser: an,
		logger:   logger,
		cancel:   cancel,
		orderBus: orderBus,
		tradeBus: tradeBus,
		orderCh:  orderBus.Subscribe(),
		tradeCh:  tradeBus.Subscribe(),
	}

	a.wg.Add(3)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case order, ok := <-a.orderCh:
				if !ok {
					return
				}
				an.CollectOrder(order)
			}
		}
	}()
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case tx, ok := <-a.tradeCh:
				if !ok {
					return
				}
				an.CollectTransaction(tx)
			}
		}
	}()
	go func() {
		defer a.wg.Done()
		_ = sched.Run(runCtx)
	}()

	logger.Info("analysis component installed",
		zap.Int("benchmark_instruments", len(cfg.Benchmark)),
		zap.Duration("collect_interval", interval))
	return a, nil
}

// Analyser exposes the live analyser for read-side consumers (dashboard).
func (a *Analysis) Analyser() *analyser.Analyser {
	return a.analyser
}

// CollectNow triggers an immediate collection tick outside the schedule.
func (a *Analysis) CollectNow() {
	a.analyser.CollectDaily()
}

// Uninstall stops event consumption and scheduling, then materializes the
// final snapshot. Safe to call once; the handle is dead afterwards.
func (a *Analysis) Uninstall() analyser.Snapshot {
	a.stopped.Do(func() {
		a.cancel()
		a.orderBus.Unsubscribe(a.orderCh)
		a.tradeBus.Unsubscribe(a.tradeCh)
		a.wg.Wait()
		a.logger.Info("analysis component uninstalled")
	})
	return a.analyser.Snapshot()
}
