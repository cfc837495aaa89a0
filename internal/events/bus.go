// Package events is a small in-process pub/sub bus. Services publish a
// change for their entity type after every mutation; subscribers declare up
// front which entity types they care about. It replaces the page-global
// string events the old site used for change fan-out.
package events

import "sync"

type Entity int

const (
	EntityOrders Entity = iota
	EntityProducts
	EntityCategories
	EntityContacts
	EntityWallets
	EntityRecharges
	EntityNews
	EntityCarousel
	EntityServerStatus
)

// All lists every entity type, for subscribers that want the full feed.
func All() []Entity {
	return []Entity{
		EntityOrders,
		EntityProducts,
		EntityCategories,
		EntityContacts,
		EntityWallets,
		EntityRecharges,
		EntityNews,
		EntityCarousel,
		EntityServerStatus,
	}
}

// ParseEntity resolves the wire name of an entity type.
func ParseEntity(name string) (Entity, bool) {
	for _, e := range All() {
		if e.String() == name {
			return e, true
		}
	}
	return 0, false
}

func (e Entity) String() string {
	switch e {
	case EntityOrders:
		return "orders"
	case EntityProducts:
		return "products"
	case EntityCategories:
		return "categories"
	case EntityContacts:
		return "contacts"
	case EntityWallets:
		return "wallets"
	case EntityRecharges:
		return "recharges"
	case EntityNews:
		return "news"
	case EntityCarousel:
		return "carousel_images"
	case EntityServerStatus:
		return "server_status"
	}
	return "unknown"
}

type Subscription struct {
	C        chan Entity
	entities map[Entity]bool
	bus      *Bus
}

// Unsubscribe removes the subscription and closes its channel. Safe to call
// once; subscriptions must be torn down when their consumer stops.
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s)
}

type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]bool
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]bool)}
}

// Subscribe registers interest in the given entity types. The returned
// subscription's channel is buffered; a slow consumer drops notifications
// rather than blocking publishers, which is fine because every notification
// means the same thing: refetch.
func (b *Bus) Subscribe(entities ...Entity) *Subscription {
	sub := &Subscription{
		C:        make(chan Entity, 16),
		entities: make(map[Entity]bool, len(entities)),
		bus:      b,
	}
	for _, e := range entities {
		sub.entities[e] = true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subs[sub] = true
	return sub
}

// Publish notifies every subscription interested in the entity type.
func (b *Bus) Publish(e Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		if !sub.entities[e] {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[sub] {
		delete(b.subs, sub)
		close(sub.C)
	}
}

// Close tears down all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.C)
	}
}
