package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/finsim/analysis/internal/domain"
)

func TestOrderBroadcasterFanOut(t *testing.T) {
	b := NewOrderBroadcaster(4)
	first := b.Subscribe()
	second := b.Subscribe()
	defer b.Unsubscribe(first)
	defer b.Unsubscribe(second)

	order := &domain.Order{ID: uuid.New()}
	b.Publish(order)

	for _, ch := range []chan *domain.Order{first, second} {
		select {
		case got := <-ch:
			require.Equal(t, order.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive order")
		}
	}
}

func TestOrderBroadcasterDropsSlowConsumer(t *testing.T) {
	b := NewOrderBroadcaster(1)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(&domain.Order{ID: uuid.New()})
	b.Publish(&domain.Order{ID: uuid.New()}) // buffer full, dropped

	require.Len(t, ch, 1)
}

func TestTransactionBroadcasterUnsubscribeCloses(t *testing.T) {
	b := NewTransactionBroadcaster(4)
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)

	// publishing after unsubscribe must not panic
	b.Publish(&domain.Transaction{ID: uuid.New()})
}
