package event

import (
	"slices"
	"sync"

	"github.com/setorcuan/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to the handlers subscribed to them
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register subscribes handler to eventTypes, or to every event when none are given
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

// Unregister removes handler from every subscription
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	isTarget := func(h shared.EventHandler) bool { return h == handler }
	r.wildcard = slices.DeleteFunc(r.wildcard, isTarget)
	for t, hs := range r.byType {
		hs = slices.DeleteFunc(hs, isTarget)
		if len(hs) == 0 {
			delete(r.byType, t)
			continue
		}
		r.byType[t] = hs
	}
}

// HandlersFor returns the type-specific handlers followed by wildcard handlers
func (r *HandlerRegistry) HandlersFor(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specific := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(specific)+len(r.wildcard))
	out = append(out, specific...)
	return append(out, r.wildcard...)
}

// Len returns the number of distinct subscriptions
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.wildcard)
	for _, hs := range r.byType {
		n += len(hs)
	}
	return n
}
