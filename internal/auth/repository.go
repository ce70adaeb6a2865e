package auth

import (
	"context"
	"strings"
	"sync"
)

// AdminRepository defines the interface for admin account storage.
type AdminRepository interface {
	// FindByUsername finds an admin by username.
	FindByUsername(ctx context.Context, username string) (*Admin, error)

	// Count returns the number of admin accounts.
	Count(ctx context.Context) (int, error)

	// Create creates a new admin account.
	Create(ctx context.Context, admin *Admin) error

	// Update persists changes to an existing admin account.
	Update(ctx context.Context, admin *Admin) error
}

// InMemoryAdminRepository is an in-memory implementation of AdminRepository.
// This is intended for testing. Production should use the database-backed
// implementation.
type InMemoryAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]*Admin // keyed by lowercased username
}

// NewInMemoryAdminRepository creates a new in-memory admin repository.
func NewInMemoryAdminRepository() *InMemoryAdminRepository {
	return &InMemoryAdminRepository{admins: make(map[string]*Admin)}
}

// FindByUsername finds an admin by username.
func (r *InMemoryAdminRepository) FindByUsername(_ context.Context, username string) (*Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[strings.ToLower(username)]
	if !ok {
		return nil, ErrAdminNotFound
	}

	adminCopy := *admin
	return &adminCopy, nil
}

// Count returns the number of admin accounts.
func (r *InMemoryAdminRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins), nil
}

// Create creates a new admin account.
func (r *InMemoryAdminRepository) Create(_ context.Context, admin *Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(admin.Username)
	if _, ok := r.admins[key]; ok {
		return ErrAdminExists
	}

	adminCopy := *admin
	r.admins[key] = &adminCopy
	return nil
}

// Update persists changes to an existing admin account.
func (r *InMemoryAdminRepository) Update(_ context.Context, admin *Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(admin.Username)
	if _, ok := r.admins[key]; !ok {
		return ErrAdminNotFound
	}

	adminCopy := *admin
	r.admins[key] = &adminCopy
	return nil
}
