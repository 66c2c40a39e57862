package event

import (
	"context"
	"sync/atomic"

	"github.com/setorcuan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats is a snapshot of an IdempotentHandler's counters
type IdempotencyStats struct {
	Processed  int64 `json:"processed"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// IdempotentHandler wraps an EventHandler so each event ID is handled once
// within the store's TTL. Customers should not get the same WhatsApp message
// twice when an event is redelivered.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger

	processed  atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

// IdempotentHandlerOption is a functional option for IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets the idempotency configuration
func WithIdempotencyConfig(cfg shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = cfg
	}
}

// NewIdempotentHandler wraps handler with duplicate detection
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle skips events whose ID was already marked. If the store is
// unreachable the event is handled anyway.
func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, evt)
	}

	eventID := evt.EventID().String()
	isNew, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("idempotency check failed, handling anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", evt.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.duplicates.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", eventID),
			zap.String("event_type", evt.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, evt); err != nil {
		h.failed.Add(1)
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns the handler's counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed:  h.processed.Load(),
		Duplicates: h.duplicates.Load(),
		Failed:     h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
