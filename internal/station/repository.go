package station

import "context"

// Repository defines the interface for station config persistence.
type Repository interface {
	// Get retrieves a station by its identifier.
	Get(ctx context.Context, id string) (*Station, error)

	// List retrieves all stations ordered by identifier.
	List(ctx context.Context) ([]*Station, error)

	// ListEnabled retrieves stations with Enabled=true, ordered by identifier.
	ListEnabled(ctx context.Context) ([]*Station, error)

	// Put creates or replaces a station config.
	Put(ctx context.Context, s *Station) error

	// Delete removes a station config.
	Delete(ctx context.Context, id string) error
}
