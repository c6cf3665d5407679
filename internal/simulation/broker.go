package simulation

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/events"
)

// Broker accepts market orders, fills them immediately at the table price
// and applies the fill to the owning account. Every accepted order and every
// fill is published on the event buses, which is where the analysis core
// picks them up.
type Broker struct {
	rt             *Runtime
	orders         *events.OrderBroadcaster
	transactions   *events.TransactionBroadcaster
	commissionRate decimal.Decimal
	logger         *zap.Logger
}

// NewBroker creates a broker publishing to the given buses. commissionRate
// is a fraction of notional charged per fill (zero disables fees).
func NewBroker(rt *Runtime, orders *events.OrderBroadcaster, transactions *events.TransactionBroadcaster,
	commissionRate decimal.Decimal, logger *zap.Logger) (*Broker, error) {
	if rt == nil {
		return nil, errors.New("runtime is required")
	}
	if orders == nil || transactions == nil {
		return nil, errors.New("order and transaction buses are required")
	}
	if commissionRate.IsNegative() {
		return nil, errors.Errorf("commission rate must not be negative, got %s", commissionRate.String())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{
		rt:             rt,
		orders:         orders,
		transactions:   transactions,
		commissionRate: commissionRate,
		logger:         logger,
	}, nil
}

// SubmitMarketOrder validates, accepts and immediately fills a market order
// at the current table price. The accepted-order event fires before the fill
// event, mirroring a live venue's sequencing; the same order may be re-fired
// downstream, consumers dedup by id.
func (b *Broker) SubmitMarketOrder(accountID uuid.UUID, code string, side domain.Side,
	effect domain.PositionEffect, quantity decimal.Decimal) (*domain.Order, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("order quantity must be positive, got %s", quantity.String())
	}
	account, ok := b.rt.Account(accountID)
	if !ok {
		return nil, errors.Errorf("unknown account %s", accountID)
	}
	priceRec, ok := b.rt.GetPrice(code)
	if !ok {
		return nil, errors.Errorf("no price available for %s", code)
	}

	now := b.rt.Now()
	price := priceRec.Price
	notional := quantity.Mul(price)

	order := &domain.Order{
		ID:             uuid.New(),
		AccountID:      accountID,
		SecondaryID:    uuid.New().String(),
		Code:           code,
		Side:           side,
		PositionEffect: effect,
		FrozenPrice:    price,
		Quantity:       quantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if side == domain.SideBuy {
		order.InitFrozenCash = notional
	}
	b.orders.Publish(order)

	commission := notional.Mul(b.commissionRate)
	fill := &domain.Transaction{
		ID:             uuid.New(),
		AccountID:      accountID,
		OrderID:        order.ID,
		SecondaryID:    order.SecondaryID,
		Code:           code,
		Side:           side,
		PositionEffect: effect,
		Price:          price,
		FrozenPrice:    price,
		Amount:         quantity,
		Commission:     commission,
		Tax:            decimal.Zero,
		CreatedAt:      now,
	}

	if err := account.ApplyFill(fill); err != nil {
		b.logger.Warn("order rejected",
			zap.String("account", account.Name()),
			zap.String("code", code),
			zap.Error(err))
		return nil, errors.Wrap(err, "apply fill")
	}

	// capture fill state on the live order after execution
	order.AvgPrice = price
	order.FilledQuantity = quantity
	order.TransactionCost = commission
	order.UpdatedAt = b.rt.Now()

	b.transactions.Publish(fill)
	b.logger.Debug("order filled",
		zap.String("account", account.Name()),
		zap.String("code", code),
		zap.String("side", string(side)),
		zap.String("quantity", quantity.String()),
		zap.String("price", price.String()))
	return order, nil
}
