package alert

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCooldownStore is a PostgreSQL implementation of CooldownStore.
//
// Put overwrites the single row per (station_id, status) pair. The
// check-then-write sequence in the engine is not atomic across concurrent
// deliveries; at worst one duplicate notification slips through, which is
// the accepted tradeoff. A conditional UPDATE ... WHERE last_notified <
// threshold would close that gap if stricter guarantees are ever needed.
type PostgresCooldownStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCooldownStore creates a new PostgreSQL cooldown store.
func NewPostgresCooldownStore(pool *pgxpool.Pool) *PostgresCooldownStore {
	return &PostgresCooldownStore{pool: pool}
}

// Get retrieves the marker for a (station, outcome-class) pair.
func (s *PostgresCooldownStore) Get(ctx context.Context, stationID, status string) (*CooldownMarker, error) {
	query := `
		SELECT station_id, status, last_notified, cooldown_minutes, expires_at
		FROM alert_cooldowns
		WHERE station_id = $1 AND status = $2
	`

	var m CooldownMarker
	err := s.pool.QueryRow(ctx, query, stationID, status).Scan(
		&m.StationID,
		&m.Status,
		&m.LastNotified,
		&m.CooldownMinutes,
		&m.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &m, nil
}

// Put creates or replaces the marker for its pair.
func (s *PostgresCooldownStore) Put(ctx context.Context, m *CooldownMarker) error {
	query := `
		INSERT INTO alert_cooldowns (station_id, status, last_notified, cooldown_minutes, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (station_id, status) DO UPDATE SET
			last_notified = EXCLUDED.last_notified,
			cooldown_minutes = EXCLUDED.cooldown_minutes,
			expires_at = EXCLUDED.expires_at
	`

	_, err := s.pool.Exec(ctx, query,
		m.StationID,
		m.Status,
		m.LastNotified,
		m.CooldownMinutes,
		m.ExpiresAt,
	)
	return err
}

// Ensure PostgresCooldownStore implements CooldownStore interface.
var _ CooldownStore = (*PostgresCooldownStore)(nil)
