// Package simulation is the in-process host runtime: simulated accounts and
// positions, a price table fed by a price source, and a broker that executes
// market orders and emits the order/transaction events the analysis core
// observes.
package simulation

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/runtime"
)

type positionKey struct {
	code      string
	direction domain.Direction
}

// bookPosition is one side of the account's exposure in an instrument. Long
// and short books are kept separately so both position-query styles resolve
// to the same unified set.
type bookPosition struct {
	code            string
	direction       domain.Direction
	avgPrice        decimal.Decimal
	quantity        decimal.Decimal
	transactionCost decimal.Decimal
}

// Account is a simulated trading account. All interior state is guarded by
// one mutex; the runtime.Account view methods take short read locks.
type Account struct {
	mu sync.RWMutex

	name            string
	id              uuid.UUID
	availableCash   decimal.Decimal
	frozenCash      decimal.Decimal
	transactionCost decimal.Decimal
	positions       map[positionKey]*bookPosition

	// lastPrice resolves an instrument's current price for valuation.
	// Supplied by the owning runtime.
	lastPrice func(code string) (decimal.Decimal, bool)
}

// NewAccount creates an account with the given starting cash.
func NewAccount(name string, initialCash decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, errors.New("account name is required")
	}
	if initialCash.IsNegative() {
		return nil, errors.Errorf("initial cash must not be negative, got %s", initialCash.String())
	}
	return &Account{
		name:          name,
		id:            uuid.New(),
		availableCash: initialCash,
		positions:     make(map[positionKey]*bookPosition),
	}, nil
}

// Name implements runtime.Account.
func (a *Account) Name() string { return a.name }

// ID implements runtime.Account.
func (a *Account) ID() uuid.UUID { return a.id }

// AvailableCash implements runtime.Account.
func (a *Account) AvailableCash() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.availableCash
}

// FrozenCash implements runtime.Account.
func (a *Account) FrozenCash() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frozenCash
}

// TransactionCost implements runtime.Account.
func (a *Account) TransactionCost() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.transactionCost
}

// MarketValue sums the signed exposure of every open position at the last
// known price: long books add, short books subtract.
func (a *Account) MarketValue() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.marketValueLocked()
}

func (a *Account) marketValueLocked() decimal.Decimal {
	value := decimal.Zero
	for key, pos := range a.positions {
		price, ok := a.priceOrAvg(pos)
		if !ok {
			continue
		}
		notional := pos.quantity.Mul(price)
		if key.direction == domain.DirectionShort {
			value = value.Sub(notional)
		} else {
			value = value.Add(notional)
		}
	}
	return value
}

// priceOrAvg falls back to the entry price when the table has no quote yet.
func (a *Account) priceOrAvg(pos *bookPosition) (decimal.Decimal, bool) {
	if a.lastPrice != nil {
		if price, ok := a.lastPrice(pos.code); ok {
			return price, true
		}
	}
	if pos.avgPrice.IsZero() {
		return decimal.Zero, false
	}
	return pos.avgPrice, true
}

// TotalValue implements runtime.Account: cash plus signed market value.
func (a *Account) TotalValue() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.availableCash.Add(a.frozenCash).Add(a.marketValueLocked())
}

// Positions implements runtime.Account. The returned handles are immutable
// copies taken under the account lock.
func (a *Account) Positions(filter domain.DirectionFilter) []runtime.Position {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []runtime.Position
	for key, pos := range a.positions {
		if !filter.Matches(key.direction) {
			continue
		}
		price, _ := a.priceOrAvg(pos)
		out = append(out, positionView{
			code:            pos.code,
			direction:       pos.direction,
			avgPrice:        pos.avgPrice,
			quantity:        pos.quantity,
			marketValue:     pos.quantity.Mul(price),
			transactionCost: pos.transactionCost,
		})
	}
	return out
}

// ApplyFill mutates the account book with one executed transaction. Opening
// fills grow the book side the fill is directed at; closing fills shrink it,
// capping at the open quantity.
func (a *Account) ApplyFill(t *domain.Transaction) error {
	if t == nil {
		return errors.New("transaction is nil")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.Errorf("fill amount must be positive, got %s", t.Amount.String())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	fees := t.Commission.Add(t.Tax)
	notional := t.Amount.Mul(t.Price)
	key := positionKey{code: t.Code, direction: t.Direction()}

	if t.PositionEffect == domain.PositionEffectOpen {
		return a.openLocked(key, t, notional, fees)
	}
	return a.closeLocked(key, t, notional, fees)
}

func (a *Account) openLocked(key positionKey, t *domain.Transaction, notional, fees decimal.Decimal) error {
	// cash moves with the traded side: buys pay the notional, short sales
	// collect it
	var cashDelta decimal.Decimal
	if t.Side == domain.SideBuy {
		cashDelta = notional.Neg().Sub(fees)
	} else {
		cashDelta = notional.Sub(fees)
	}
	next := a.availableCash.Add(cashDelta)
	if next.IsNegative() {
		return errors.Errorf("insufficient cash in %s: have %s need %s",
			a.name, a.availableCash.String(), cashDelta.Neg().String())
	}
	a.availableCash = next
	a.transactionCost = a.transactionCost.Add(fees)

	pos, ok := a.positions[key]
	if !ok {
		a.positions[key] = &bookPosition{
			code:            t.Code,
			direction:       key.direction,
			avgPrice:        t.Price,
			quantity:        t.Amount,
			transactionCost: fees,
		}
		return nil
	}

	total := pos.quantity.Add(t.Amount)
	existingNotional := pos.avgPrice.Mul(pos.quantity)
	pos.avgPrice = existingNotional.Add(notional).Div(total)
	pos.quantity = total
	pos.transactionCost = pos.transactionCost.Add(fees)
	return nil
}

func (a *Account) closeLocked(key positionKey, t *domain.Transaction, notional, fees decimal.Decimal) error {
	pos, ok := a.positions[key]
	if !ok {
		return errors.Errorf("no %s %s position to close in %s", key.direction, key.code, a.name)
	}

	closeAmount := t.Amount
	if closeAmount.GreaterThan(pos.quantity) {
		closeAmount = pos.quantity
		notional = closeAmount.Mul(t.Price)
	}

	if key.direction == domain.DirectionLong {
		// closing long: sell proceeds come back as cash
		a.availableCash = a.availableCash.Add(notional).Sub(fees)
	} else {
		// closing short: buy back, pay the notional
		a.availableCash = a.availableCash.Sub(notional).Sub(fees)
	}
	a.transactionCost = a.transactionCost.Add(fees)

	pos.quantity = pos.quantity.Sub(closeAmount)
	pos.transactionCost = pos.transactionCost.Add(fees)
	if pos.quantity.LessThanOrEqual(decimal.Zero) {
		delete(a.positions, key)
	}
	return nil
}

// positionView is the immutable runtime.Position handle handed out to
// readers.
type positionView struct {
	code            string
	direction       domain.Direction
	avgPrice        decimal.Decimal
	quantity        decimal.Decimal
	marketValue     decimal.Decimal
	transactionCost decimal.Decimal
}

func (p positionView) Code() string                     { return p.code }
func (p positionView) Direction() domain.Direction      { return p.direction }
func (p positionView) AvgPrice() decimal.Decimal        { return p.avgPrice }
func (p positionView) Quantity() decimal.Decimal        { return p.quantity }
func (p positionView) Closable() decimal.Decimal        { return p.quantity }
func (p positionView) ClosableLimited() decimal.Decimal { return p.quantity }
func (p positionView) MarketValue() decimal.Decimal     { return p.marketValue }
func (p positionView) TransactionCost() decimal.Decimal { return p.transactionCost }
