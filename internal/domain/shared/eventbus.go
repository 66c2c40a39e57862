package shared

import "context"

// EventHandler reacts to published domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; empty means all
	EventTypes() []string
}

// EventPublisher is what services publish committed events through
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus fans published events out to subscribed handlers
type EventBus interface {
	EventPublisher
	// Subscribe registers handler for eventTypes, or for the handler's own
	// EventTypes when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
