package event

import (
	"context"
	"sync"

	"github.com/metarwatch/metarwatch/internal/alert"
)

// InMemoryPublisher records published events for testing.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []*alert.Event

	// Err, when set, is returned by PublishAlertCandidates.
	Err error
}

// NewInMemoryPublisher creates a new in-memory publisher.
func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

// PublishAlertCandidates records the events.
func (p *InMemoryPublisher) PublishAlertCandidates(ctx context.Context, events []*alert.Event) error {
	if p.Err != nil {
		return p.Err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

// Events returns a copy of everything published so far.
func (p *InMemoryPublisher) Events() []*alert.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*alert.Event, len(p.events))
	copy(out, p.events)
	return out
}
