package alert

import (
	"context"
	"sync"
)

// InMemoryCooldownStore is an in-memory implementation of CooldownStore.
// This is intended for testing. Production should use PostgresCooldownStore.
type InMemoryCooldownStore struct {
	mu      sync.RWMutex
	markers map[cooldownKey]*CooldownMarker

	// GetErr and PutErr, when set, force the corresponding operation to
	// fail.
	GetErr error
	PutErr error
}

type cooldownKey struct {
	stationID string
	status    string
}

// NewInMemoryCooldownStore creates a new in-memory cooldown store.
func NewInMemoryCooldownStore() *InMemoryCooldownStore {
	return &InMemoryCooldownStore{
		markers: make(map[cooldownKey]*CooldownMarker),
	}
}

// Get retrieves the marker for a (station, outcome-class) pair.
func (s *InMemoryCooldownStore) Get(_ context.Context, stationID, status string) (*CooldownMarker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	m, ok := s.markers[cooldownKey{stationID, status}]
	if !ok {
		return nil, nil
	}
	cpy := *m
	return &cpy, nil
}

// Put creates or replaces the marker for its pair.
func (s *InMemoryCooldownStore) Put(_ context.Context, m *CooldownMarker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PutErr != nil {
		return s.PutErr
	}

	cpy := *m
	s.markers[cooldownKey{m.StationID, m.Status}] = &cpy
	return nil
}

// Ensure InMemoryCooldownStore implements CooldownStore interface.
var _ CooldownStore = (*InMemoryCooldownStore)(nil)
