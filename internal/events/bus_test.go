package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesInterestedSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	orders := bus.Subscribe(EntityOrders)
	wallets := bus.Subscribe(EntityWallets)

	bus.Publish(EntityOrders)

	select {
	case e := <-orders.C:
		assert.Equal(t, EntityOrders, e)
	default:
		t.Fatal("orders subscriber got nothing")
	}
	select {
	case <-wallets.C:
		t.Fatal("wallets subscriber should not see order events")
	default:
	}
}

func TestSubscribeMultipleEntities(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(EntityOrders, EntityRecharges)

	bus.Publish(EntityRecharges)
	bus.Publish(EntityNews)
	bus.Publish(EntityOrders)

	var got []Entity
	for len(sub.C) > 0 {
		got = append(got, <-sub.C)
	}
	assert.Equal(t, []Entity{EntityRecharges, EntityOrders}, got)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(EntityOrders)
	for i := 0; i < cap(sub.C)+10; i++ {
		bus.Publish(EntityOrders)
	}

	assert.Equal(t, cap(sub.C), len(sub.C))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(EntityOrders)
	sub.Unsubscribe()

	_, open := <-sub.C
	require.False(t, open)

	// Publishing after unsubscribe must not panic on a closed channel.
	bus.Publish(EntityOrders)
	sub.Unsubscribe()
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	bus := NewBus()
	bus.Close()
	bus.Close()

	sub := bus.Subscribe(EntityOrders)
	_, open := <-sub.C
	assert.False(t, open)
}

func TestEntityString(t *testing.T) {
	assert.Equal(t, "orders", EntityOrders.String())
	assert.Equal(t, "server_status", EntityServerStatus.String())
	assert.Equal(t, "unknown", Entity(99).String())
}

func TestParseEntityRoundTrips(t *testing.T) {
	for _, e := range All() {
		got, ok := ParseEntity(e.String())
		require.True(t, ok, e.String())
		assert.Equal(t, e, got)
	}

	_, ok := ParseEntity("invoices")
	assert.False(t, ok)
}
