// Package events dispatches domain events to in-process subscribers.
package events

import (
	"context"
	"fmt"
	"sync"

	"catalog-api/internal/domain"
)

// Handler reacts to a dispatched domain event.
type Handler func(ctx context.Context, e domain.Event) error

// Bus is a synchronous in-process event bus. Handlers for the specific event
// type are called first, then global handlers.
type Bus struct {
	handlers    map[domain.EventType][]Handler
	allHandlers []Handler
	mu          sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[domain.EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType domain.EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler that receives every event.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allHandlers = append(b.allHandlers, handler)
}

// Publish runs every matching handler and stops at the first error.
func (b *Bus) Publish(ctx context.Context, e domain.Event) error {
	b.mu.RLock()
	typed := b.handlers[e.EventType()]
	global := b.allHandlers
	b.mu.RUnlock()

	for _, handler := range typed {
		if err := handler(ctx, e); err != nil {
			return fmt.Errorf("handler for %s failed: %w", e.EventType(), err)
		}
	}
	for _, handler := range global {
		if err := handler(ctx, e); err != nil {
			return fmt.Errorf("handler for %s failed: %w", e.EventType(), err)
		}
	}
	return nil
}

// Dispatch publishes events in order.
func (b *Bus) Dispatch(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// HandlerCount returns the total number of registered handlers.
func (b *Bus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := len(b.allHandlers)
	for _, handlers := range b.handlers {
		count += len(handlers)
	}
	return count
}
