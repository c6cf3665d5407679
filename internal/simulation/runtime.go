package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/runtime"
	"github.com/finsim/analysis/internal/services/pricer"
	"github.com/finsim/analysis/pkg/retrier"
)

// Runtime implements runtime.Runtime over a fixed set of simulated accounts
// and an in-memory price table. The account set is immutable after
// construction; each account carries its own lock, the table carries its
// own, so readers never serialize on a global guard.
type Runtime struct {
	accounts []*Account
	byID     map[uuid.UUID]*Account

	pricesMu sync.RWMutex
	prices   map[string]domain.PriceRecord

	nowFn   func() int64
	logger  *zap.Logger
	retrier *retrier.Retrier
}

// Option tweaks runtime construction.
type Option func(*Runtime)

// WithClock replaces the wall clock, for deterministic tests and replay
// runs.
func WithClock(nowFn func() int64) Option {
	return func(r *Runtime) { r.nowFn = nowFn }
}

// NewRuntime creates a runtime owning the given accounts.
func NewRuntime(accounts []*Account, logger *zap.Logger, opts ...Option) (*Runtime, error) {
	if len(accounts) == 0 {
		return nil, errors.New("at least one account is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := &Runtime{
		accounts: accounts,
		byID:     make(map[uuid.UUID]*Account, len(accounts)),
		prices:   make(map[string]domain.PriceRecord),
		nowFn:    func() int64 { return time.Now().UnixMilli() },
		logger:   logger,
		retrier: retrier.New(
			retrier.WithMaxRetries(2),
			retrier.WithInitialInterval(200*time.Millisecond),
			retrier.WithMaxInterval(time.Second),
		),
	}
	for _, account := range accounts {
		if _, dup := rt.byID[account.ID()]; dup {
			return nil, errors.Errorf("duplicate account id %s", account.ID())
		}
		rt.byID[account.ID()] = account
		account.lastPrice = rt.lastPrice
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt, nil
}

// Now implements runtime.Runtime.
func (r *Runtime) Now() int64 { return r.nowFn() }

// Accounts implements runtime.Runtime.
func (r *Runtime) Accounts() []runtime.Account {
	out := make([]runtime.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	return out
}

// Account resolves a simulated account by id.
func (r *Runtime) Account(id uuid.UUID) (*Account, bool) {
	account, ok := r.byID[id]
	return account, ok
}

// GetPrice implements runtime.Runtime.
func (r *Runtime) GetPrice(code string) (domain.PriceRecord, bool) {
	r.pricesMu.RLock()
	defer r.pricesMu.RUnlock()
	rec, ok := r.prices[code]
	return rec, ok
}

func (r *Runtime) lastPrice(code string) (decimal.Decimal, bool) {
	rec, ok := r.GetPrice(code)
	if !ok {
		return decimal.Decimal{}, false
	}
	return rec.Price, true
}

// SetPrice updates the price table for one instrument.
func (r *Runtime) SetPrice(code string, price decimal.Decimal) {
	rec := domain.PriceRecord{Code: code, Price: price, Timestamp: r.Now()}
	r.pricesMu.Lock()
	r.prices[code] = rec
	r.pricesMu.Unlock()
}

// RefreshPrices pulls the given instruments from the price source into the
// table. Transient lookup failures are retried with backoff; a lookup that
// still fails keeps the previous quote and is logged, not fatal.
func (r *Runtime) RefreshPrices(ctx context.Context, source pricer.PriceSource, codes []string) {
	for _, code := range codes {
		price, err := retrier.DoWithData(r.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
			return source.GetPrice(ctx, code)
		})
		if err != nil {
			r.logger.Warn("price refresh failed", zap.String("code", code), zap.Error(err))
			continue
		}
		r.SetPrice(code, price)
	}
}
