package events

import (
	"context"
	"sync"

	"roofline_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Async handlers run in
// their own goroutine; handler errors are logged, never propagated to
// the publisher.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the named event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously.
// The event outlives the HTTP request that produced it, so handlers run
// against a detached context.
func (b *InMemoryBus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	registered := make([]Handler, len(b.handlers[event.EventName()]))
	copy(registered, b.handlers[event.EventName()])
	b.mu.RUnlock()

	for _, h := range registered {
		handler := h
		go func() {
			if err := handler.Handle(context.Background(), event); err != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(),
					"error", err,
				)
			}
		}()
	}
}

// PublishSync dispatches the event and waits for all handlers.
// The first handler error is returned; remaining handlers still run.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	registered := make([]Handler, len(b.handlers[event.EventName()]))
	copy(registered, b.handlers[event.EventName()])
	b.mu.RUnlock()

	var firstErr error
	for _, handler := range registered {
		if err := handler.Handle(ctx, event); err != nil {
			b.log.Error("event handler failed",
				"event", event.EventName(),
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

var _ Bus = (*InMemoryBus)(nil)
