package memory

import (
	"context"
	"sync"

	"github.com/datanaut/naqo/internal/ports"
)

// Bus is an in-process EventBus. Handlers run asynchronously; publish never
// blocks on a slow subscriber. Intended for single-node deployments and tests.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]ports.EventHandler
	closed      bool
}

// NewBus creates an empty in-memory event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string][]ports.EventHandler),
	}
}

// Publish delivers the event to every subscriber of the topic. Handler errors
// are swallowed; delivery is best effort.
func (b *Bus) Publish(ctx context.Context, topic string, event ports.Event) error {
	b.mu.RLock()
	handlers := make([]ports.EventHandler, len(b.subscribers[topic]))
	copy(handlers, b.subscribers[topic])
	b.mu.RUnlock()

	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		go func(h ports.EventHandler) {
			_ = h(ctx, event)
		}(handler)
	}

	return nil
}

// Subscribe registers a handler for a topic. The subscription lives until the
// context is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) error {
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
	index := len(b.subscribers[topic]) - 1
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(topic, index)
	}()

	return nil
}

// Close drops every subscription.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[string][]ports.EventHandler)
	b.closed = true
	return nil
}

// remove nils out one subscription slot. Slots are not compacted so that
// indices captured by other subscriptions stay valid.
func (b *Bus) remove(topic string, index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	handlers := b.subscribers[topic]
	if index < len(handlers) {
		handlers[index] = nil
	}
}
