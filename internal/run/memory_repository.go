package run

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu   sync.RWMutex
	runs []*Run
}

// NewInMemoryRepository creates a new in-memory run repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Append stores a new run record.
func (r *InMemoryRepository) Append(_ context.Context, rec *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *rec
	r.runs = append(r.runs, &cpy)
	return nil
}

// ListRecent retrieves the newest limit runs, ordered oldest-first.
func (r *InMemoryRepository) ListRecent(_ context.Context, limit int) ([]*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if limit > 0 && len(r.runs) > limit {
		start = len(r.runs) - limit
	}

	runs := make([]*Run, 0, len(r.runs)-start)
	for _, rec := range r.runs[start:] {
		cpy := *rec
		runs = append(runs, &cpy)
	}
	return runs, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
