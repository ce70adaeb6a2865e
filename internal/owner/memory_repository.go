package owner

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	owners map[string]*Owner
}

// NewInMemoryRepository creates a new in-memory owner repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		owners: make(map[string]*Owner),
	}
}

// Get retrieves an owner by its identifier.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.owners[id]
	if !ok {
		return nil, ErrOwnerNotFound
	}

	cpy := *o
	return &cpy, nil
}

// List retrieves all owners ordered by identifier.
func (r *InMemoryRepository) List(_ context.Context) ([]*Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owners []*Owner
	for _, o := range r.owners {
		cpy := *o
		owners = append(owners, &cpy)
	}

	sort.Slice(owners, func(i, j int) bool { return owners[i].ID < owners[j].ID })
	return owners, nil
}

// Put creates or replaces an owner config.
func (r *InMemoryRepository) Put(_ context.Context, o *Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *o
	r.owners[o.ID] = &cpy
	return nil
}

// Delete removes an owner config.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[id]; !ok {
		return ErrOwnerNotFound
	}
	delete(r.owners, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
