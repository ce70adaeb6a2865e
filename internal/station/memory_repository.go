package station

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	stations map[string]*Station
}

// NewInMemoryRepository creates a new in-memory station repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		stations: make(map[string]*Station),
	}
}

// Get retrieves a station by its identifier.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stations[NormalizeID(id)]
	if !ok {
		return nil, ErrStationNotFound
	}

	cpy := *s
	return &cpy, nil
}

// List retrieves all stations ordered by identifier.
func (r *InMemoryRepository) List(_ context.Context) ([]*Station, error) {
	return r.list(func(*Station) bool { return true }), nil
}

// ListEnabled retrieves stations with Enabled=true, ordered by identifier.
func (r *InMemoryRepository) ListEnabled(_ context.Context) ([]*Station, error) {
	return r.list(func(s *Station) bool { return s.Enabled }), nil
}

func (r *InMemoryRepository) list(keep func(*Station) bool) []*Station {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stations []*Station
	for _, s := range r.stations {
		if keep(s) {
			cpy := *s
			stations = append(stations, &cpy)
		}
	}

	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })
	return stations
}

// Put creates or replaces a station config.
func (r *InMemoryRepository) Put(_ context.Context, s *Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *s
	cpy.ID = NormalizeID(s.ID)
	r.stations[cpy.ID] = &cpy
	return nil
}

// Delete removes a station config.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeID(id)
	if _, ok := r.stations[key]; !ok {
		return ErrStationNotFound
	}
	delete(r.stations, key)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
