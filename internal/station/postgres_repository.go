package station

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL station repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a station by its identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Station, error) {
	query := `
		SELECT station_id, enabled, owner_id, notify_on, cooldown_minutes, alerts_enabled, updated_at
		FROM stations
		WHERE station_id = $1
	`

	var s Station
	var notifyOn string
	err := r.pool.QueryRow(ctx, query, NormalizeID(id)).Scan(
		&s.ID,
		&s.Enabled,
		&s.OwnerID,
		&notifyOn,
		&s.CooldownMinutes,
		&s.AlertsEnabled,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	s.NotifyOn = ParseNotifyPolicy(notifyOn)

	return &s, nil
}

// List retrieves all stations ordered by identifier.
func (r *PostgresRepository) List(ctx context.Context) ([]*Station, error) {
	query := `
		SELECT station_id, enabled, owner_id, notify_on, cooldown_minutes, alerts_enabled, updated_at
		FROM stations
		ORDER BY station_id
	`
	return r.queryStations(ctx, query)
}

// ListEnabled retrieves stations with Enabled=true, ordered by identifier.
func (r *PostgresRepository) ListEnabled(ctx context.Context) ([]*Station, error) {
	query := `
		SELECT station_id, enabled, owner_id, notify_on, cooldown_minutes, alerts_enabled, updated_at
		FROM stations
		WHERE enabled = true
		ORDER BY station_id
	`
	return r.queryStations(ctx, query)
}

func (r *PostgresRepository) queryStations(ctx context.Context, query string, args ...interface{}) ([]*Station, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []*Station
	for rows.Next() {
		var s Station
		var notifyOn string
		err := rows.Scan(
			&s.ID,
			&s.Enabled,
			&s.OwnerID,
			&notifyOn,
			&s.CooldownMinutes,
			&s.AlertsEnabled,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		s.NotifyOn = ParseNotifyPolicy(notifyOn)
		stations = append(stations, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

// Put creates or replaces a station config.
func (r *PostgresRepository) Put(ctx context.Context, s *Station) error {
	query := `
		INSERT INTO stations (station_id, enabled, owner_id, notify_on, cooldown_minutes, alerts_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (station_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			owner_id = EXCLUDED.owner_id,
			notify_on = EXCLUDED.notify_on,
			cooldown_minutes = EXCLUDED.cooldown_minutes,
			alerts_enabled = EXCLUDED.alerts_enabled,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.Enabled,
		s.OwnerID,
		string(s.NotifyOn),
		s.CooldownMinutes,
		s.AlertsEnabled,
		s.UpdatedAt,
	)
	return err
}

// Delete removes a station config.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM stations WHERE station_id = $1`

	result, err := r.pool.Exec(ctx, query, NormalizeID(id))
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrStationNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
