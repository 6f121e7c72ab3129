package shared

import "context"

// EventHandler reacts to published events. A handler that returns no types
// from EventTypes is subscribed to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher hands committed events to subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is a publisher that handlers can subscribe to; explicit eventTypes
// override the handler's own EventTypes
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
}
