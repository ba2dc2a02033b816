// Package events carries the process-wide "cart changed" notification.
// Cart mutations publish; the cart stream handler subscribes on behalf of
// each open page and unsubscribes when the page goes away.
package events

import (
	"sync"
	"time"
)

// Reason names the mutation that changed a cart.
type Reason string

const (
	ReasonLineAdded       Reason = "line_added"
	ReasonLineUpdated     Reason = "line_updated"
	ReasonLinesRemoved    Reason = "lines_removed"
	ReasonDiscountChanged Reason = "discount_changed"
	ReasonCartCleared     Reason = "cart_cleared"
)

type CartChanged struct {
	CartID string    `json:"cartId"`
	Reason Reason    `json:"reason"`
	At     time.Time `json:"at"`
}

// Handler must not block; slow consumers should hand off to their own goroutine.
type Handler func(CartChanged)

// Publisher is what cart mutations depend on.
type Publisher interface {
	Publish(CartChanged)
}

// Bus is a synchronous fan-out of CartChanged events. The zero value is not
// usable; call NewBus.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]Handler)}
}

// Subscribe registers h and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every current subscriber.
func (b *Bus) Publish(e CartChanged) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Subscribers reports how many handlers are registered.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
