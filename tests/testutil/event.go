package testutil

import (
	"context"
	"sync"

	"github.com/setorcuan/backend/internal/domain/shared"
)

// RecordingPublisher is a shared.EventPublisher that keeps every event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// NewRecordingPublisher creates an empty recorder
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the events
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the recorded event types in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// Reset forgets every recorded event
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// RecordingNotifier captures fire-and-forget notifications
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []Notification
}

// Notification is one captured message
type Notification struct {
	Destination string
	Message     string
}

// Notify records the message
func (n *RecordingNotifier) Notify(_ context.Context, destination, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, Notification{Destination: destination, Message: message})
}

// Sent returns a copy of the captured messages
func (n *RecordingNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.Messages))
	copy(out, n.Messages)
	return out
}

var _ shared.EventPublisher = (*RecordingPublisher)(nil)
