package metar

import (
	"context"
	"time"
)

// Repository defines the interface for observation persistence.
type Repository interface {
	// PutBatch stores observations, overwriting any existing record for
	// the same (station_id, observation_time) pair. expiresAfter controls
	// the storage retention window relative to each observation time.
	PutBatch(ctx context.Context, observations []*Observation, expiresAfter time.Duration) error

	// ListByStation retrieves up to limit of the most recent observations
	// for a station, ordered oldest-first.
	ListByStation(ctx context.Context, stationID string, limit int) ([]*Observation, error)
}
