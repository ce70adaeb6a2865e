package alert

import "context"

// CooldownStore persists cooldown markers. The engine is the only reader
// and writer of this store.
type CooldownStore interface {
	// Get retrieves the marker for a (station, outcome-class) pair.
	// Returns (nil, nil) when no marker exists.
	Get(ctx context.Context, stationID, status string) (*CooldownMarker, error)

	// Put creates or replaces the marker for its (station, outcome-class)
	// pair, refreshing the retention expiry.
	Put(ctx context.Context, m *CooldownMarker) error
}
