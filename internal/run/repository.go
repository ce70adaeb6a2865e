package run

import "context"

// Repository defines the interface for collection run persistence.
type Repository interface {
	// Append stores a new run record.
	Append(ctx context.Context, r *Run) error

	// ListRecent retrieves the newest limit runs, ordered oldest-first.
	ListRecent(ctx context.Context, limit int) ([]*Run, error)
}
