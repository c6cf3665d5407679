// Package analyser maintains running time-series of portfolio performance,
// per-account and per-position history, and deduplicated sets of historical
// orders and transactions, all fed by the host runtime's events and clock.
package analyser

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/runtime"
)

// Analyser aggregates analytics over the host runtime's live state. The
// struct is a cheap shared handle: every producer site (event delivery,
// scheduler, shutdown path) may hold the same pointer and call into it
// concurrently for the owner's full lifetime.
type Analyser struct {
	rt        runtime.Runtime
	benchmark domain.Benchmark
	store     *MetricsStore
	logger    *zap.Logger
}

// New validates the benchmark basket and builds an empty analyser. An empty
// or zero-weight basket is rejected here rather than producing non-finite
// values at collection time.
func New(rt runtime.Runtime, benchmark domain.Benchmark, logger *zap.Logger) (*Analyser, error) {
	if rt == nil {
		return nil, errors.New("runtime is required")
	}
	if err := benchmark.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid benchmark basket")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyser{
		rt:        rt,
		benchmark: benchmark.Clone(),
		store:     NewMetricsStore(),
		logger:    logger,
	}, nil
}

// Store exposes the metrics store for read-only consumers (dashboard
// streaming). Mutation stays mediated by the analyser.
func (a *Analyser) Store() *MetricsStore {
	return a.store
}

// CollectDaily runs one collection tick: appends the benchmark and portfolio
// net values, then records every account and its positions under a single
// "now" timestamp. All runtime reads resolve before any store guard is
// taken.
func (a *Analyser) CollectDaily() {
	now := a.rt.Now()
	benchmarkValue := a.benchmarkNetValue()

	accounts := a.rt.Accounts()
	portfolioValue := decimal.Zero
	for _, account := range accounts {
		portfolioValue = portfolioValue.Add(account.TotalValue())
	}

	accountRecs := make([]domain.AccountRecord, 0, len(accounts))
	var positionRecs []domain.PositionRecord
	for _, account := range accounts {
		accountRecs = append(accountRecs, accountRecordAt(account, now))
		accountID := account.ID()
		for _, position := range account.Positions(domain.DirectionFilterAll) {
			positionRecs = append(positionRecs, positionRecordAt(accountID, position, now))
		}
	}

	a.store.AppendDaily(portfolioValue, benchmarkValue)
	a.store.AppendTick(accountRecs, now, positionRecs)

	a.logger.Debug("daily collection tick",
		zap.Int64("ts", now),
		zap.String("portfolio", portfolioValue.String()),
		zap.String("benchmark", benchmarkValue.String()),
		zap.Int("accounts", len(accountRecs)),
		zap.Int("positions", len(positionRecs)))
}

// CollectOrder captures the order's current state and records it by id.
// Duplicate delivery of the same id keeps the first capture.
func (a *Analyser) CollectOrder(o *domain.Order) {
	if o == nil {
		return
	}
	if !a.store.InsertOrderIfAbsent(domain.NewOrderRecord(o)) {
		a.logger.Debug("duplicate order delivery ignored", zap.String("id", o.ID.String()))
	}
}

// CollectTransaction records the fill by id, deduplicating duplicate
// delivery.
func (a *Analyser) CollectTransaction(t *domain.Transaction) {
	if t == nil {
		return
	}
	if !a.store.InsertTransactionIfAbsent(domain.NewTransactionRecord(t)) {
		a.logger.Debug("duplicate transaction delivery ignored", zap.String("id", t.ID.String()))
	}
}

// Snapshot materializes all aggregated state plus the static benchmark
// basket.
func (a *Analyser) Snapshot() Snapshot {
	snap := a.store.Snapshot()
	snap.BenchmarkInstruments = a.benchmark.Clone()
	return snap
}

// benchmarkNetValue computes sum(price*weight)/sum(weight) over the basket.
// An instrument with no available price contributes zero to the numerator
// while its weight still counts in the denominator, understating the value;
// that matches the long-standing behavior downstream consumers calibrate
// against, so it is deliberate.
func (a *Analyser) benchmarkNetValue() decimal.Decimal {
	var weights int64
	value := decimal.Zero
	for code, weight := range a.benchmark {
		if rec, ok := a.rt.GetPrice(code); ok {
			value = value.Add(rec.Price.Mul(decimal.NewFromInt(weight)))
		} else {
			a.logger.Debug("no price for benchmark instrument", zap.String("code", code))
		}
		weights += weight
	}
	return value.Div(decimal.NewFromInt(weights))
}
