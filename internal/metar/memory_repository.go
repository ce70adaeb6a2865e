package metar

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu sync.RWMutex
	// keyed by station id, then observation time
	byStation map[string]map[time.Time]*Observation
}

// NewInMemoryRepository creates a new in-memory observation repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byStation: make(map[string]map[time.Time]*Observation),
	}
}

// PutBatch stores observations, overwriting duplicates.
func (r *InMemoryRepository) PutBatch(_ context.Context, observations []*Observation, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range observations {
		station := r.byStation[o.StationID]
		if station == nil {
			station = make(map[time.Time]*Observation)
			r.byStation[o.StationID] = station
		}
		cpy := *o
		station[o.ObservationTime] = &cpy
	}
	return nil
}

// ListByStation retrieves the most recent observations for a station,
// oldest-first.
func (r *InMemoryRepository) ListByStation(_ context.Context, stationID string, limit int) ([]*Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var observations []*Observation
	for _, o := range r.byStation[stationID] {
		cpy := *o
		observations = append(observations, &cpy)
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].ObservationTime.Before(observations[j].ObservationTime)
	})

	if limit > 0 && len(observations) > limit {
		observations = observations[len(observations)-limit:]
	}

	return observations, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
