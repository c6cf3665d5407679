// Package events is the in-process subscription mechanism carrying the two
// typed event kinds the analysis core observes: "order accepted" and "trade
// executed". Delivery is at-least-once from the consumer's point of view
// (producers may re-fire), so subscribers are expected to deduplicate.
package events

import (
	"sync"

	"github.com/finsim/analysis/internal/domain"
)

// OrderBroadcaster fans out accepted orders to all subscribers via buffered
// channels, dropping for slow readers rather than blocking producers.
type OrderBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan *domain.Order]struct{}
	buffer int
}

// NewOrderBroadcaster creates a broadcaster with the given per-subscriber
// buffer.
func NewOrderBroadcaster(buffer int) *OrderBroadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &OrderBroadcaster{
		subs:   make(map[chan *domain.Order]struct{}),
		buffer: buffer,
	}
}

// Publish sends the order to all subscribers.
func (b *OrderBroadcaster) Publish(o *domain.Order) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- o:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives orders until Unsubscribe is
// called.
func (b *OrderBroadcaster) Subscribe() chan *domain.Order {
	ch := make(chan *domain.Order, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *OrderBroadcaster) Unsubscribe(ch chan *domain.Order) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// TransactionBroadcaster fans out executed trades, mirroring
// OrderBroadcaster.
type TransactionBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan *domain.Transaction]struct{}
	buffer int
}

// NewTransactionBroadcaster creates a broadcaster with the given
// per-subscriber buffer.
func NewTransactionBroadcaster(buffer int) *TransactionBroadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &TransactionBroadcaster{
		subs:   make(map[chan *domain.Transaction]struct{}),
		buffer: buffer,
	}
}

// Publish sends the transaction to all subscribers.
func (b *TransactionBroadcaster) Publish(t *domain.Transaction) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- t:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives transactions until Unsubscribe
// is called.
func (b *TransactionBroadcaster) Subscribe() chan *domain.Transaction {
	ch := make(chan *domain.Transaction, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *TransactionBroadcaster) Unsubscribe(ch chan *domain.Transaction) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
