package memory

import (
	"context"
	"sync"

	"github.com/smartsupply/supply-core/internal/domain"
)

// EventRecorder is an in-memory domain.EventPublisher. It records every
// published event, which makes it the publisher of choice in tests and in
// deployments without a broker.
type EventRecorder struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Publish records a single event
func (r *EventRecorder) Publish(ctx context.Context, event domain.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// PublishAll records a batch of events
func (r *EventRecorder) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns a copy of everything recorded so far
func (r *EventRecorder) Events() []domain.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset clears recorded events
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
