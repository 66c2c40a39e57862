package exchange

import (
	"context"

	"github.com/setorcuan/backend/internal/domain/shared"
)

type eventSource interface {
	PullDomainEvents() []shared.DomainEvent
}

// publishEvents hands committed aggregates' events to the bus
func publishEvents(ctx context.Context, publisher shared.EventPublisher, sources ...eventSource) {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.PullDomainEvents()...)
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	// errors are logged by the event bus
	_ = publisher.Publish(ctx, events...)
}
