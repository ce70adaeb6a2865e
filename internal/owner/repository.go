package owner

import "context"

// Repository defines the interface for owner config persistence.
type Repository interface {
	// Get retrieves an owner by its identifier.
	Get(ctx context.Context, id string) (*Owner, error)

	// List retrieves all owners ordered by identifier.
	List(ctx context.Context) ([]*Owner, error)

	// Put creates or replaces an owner config.
	Put(ctx context.Context, o *Owner) error

	// Delete removes an owner config.
	Delete(ctx context.Context, id string) error
}
