package events

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Collections the store publishes on. Subscribers key on these names.
const (
	CollectionTables = "tables"
	CollectionMenu   = "menu"
	CollectionOrders = "orders"
)

// Actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Event struct {
	Collection string      `json:"collection"`
	Action     string      `json:"action"`
	Record     interface{} `json:"record"`
}

// Bus is an in-process publish/subscribe channel keyed by collection name.
// It replaces the browser storage-change event the old front end relied on:
// every store mutation is published here and relays fan it out to clients.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *logrus.Logger
}

type Subscription struct {
	C           chan Event
	collections map[string]bool
}

func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers interest in the given collections. With no arguments
// the subscription receives every event.
func (b *Bus) Subscribe(collections ...string) *Subscription {
	sub := &Subscription{
		C:           make(chan Event, 64),
		collections: make(map[string]bool, len(collections)),
	}
	for _, c := range collections {
		sub.collections[c] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.C)
	}
}

// Publish delivers the event to every matching subscriber. Delivery is
// non-blocking: a subscriber that stopped draining its channel loses
// events instead of stalling the store.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if len(sub.collections) > 0 && !sub.collections[e.Collection] {
			continue
		}
		select {
		case sub.C <- e:
		default:
			if b.logger != nil {
				b.logger.Printf("event bus: dropping %s/%s for slow subscriber", e.Collection, e.Action)
			}
		}
	}
}
