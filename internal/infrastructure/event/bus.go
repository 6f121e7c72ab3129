package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/bookstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers committed domain events to subscribed handlers in
// the publishing goroutine. A failing or panicking handler is logged and never
// affects the caller, whose transaction has already committed.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		byType: make(map[string][]shared.EventHandler),
		logger: logger,
	}
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes()
// when none are given. A handler with no types at all receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		b.byType[t] = append(b.byType[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = without(b.wildcard, handler)
	for t, hs := range b.byType {
		if rest := without(hs, handler); len(rest) > 0 {
			b.byType[t] = rest
		} else {
			delete(b.byType, t)
		}
	}
}

// Publish hands each event to its handlers in order. It always returns nil.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	out = append(out, typed...)
	return append(out, b.wildcard...)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
