package metar

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL observation repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// PutBatch stores observations with per-row expiry timestamps.
func (r *PostgresRepository) PutBatch(ctx context.Context, observations []*Observation, expiresAfter time.Duration) error {
	if len(observations) == 0 {
		return nil
	}

	query := `
		INSERT INTO metars (
			station_id, observation_time, collected_at, expires_at,
			temp_c, dewpoint_c, wind_dir_degrees, wind_speed_kt,
			visibility_statute_mi, altim_in_hg, flight_category, raw_text
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (station_id, observation_time) DO UPDATE SET
			collected_at = EXCLUDED.collected_at,
			expires_at = EXCLUDED.expires_at,
			temp_c = EXCLUDED.temp_c,
			dewpoint_c = EXCLUDED.dewpoint_c,
			wind_dir_degrees = EXCLUDED.wind_dir_degrees,
			wind_speed_kt = EXCLUDED.wind_speed_kt,
			visibility_statute_mi = EXCLUDED.visibility_statute_mi,
			altim_in_hg = EXCLUDED.altim_in_hg,
			flight_category = EXCLUDED.flight_category,
			raw_text = EXCLUDED.raw_text
	`

	batch := &pgx.Batch{}
	for _, o := range observations {
		batch.Queue(query,
			o.StationID,
			o.ObservationTime,
			o.CollectedAt,
			o.ObservationTime.Add(expiresAfter),
			o.TempC,
			o.DewpointC,
			o.WindDirDegrees,
			o.WindSpeedKt,
			o.VisibilityStatuteMi,
			o.AltimInHg,
			o.FlightCategory,
			o.RawText,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range observations {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

// ListByStation retrieves the most recent observations for a station.
func (r *PostgresRepository) ListByStation(ctx context.Context, stationID string, limit int) ([]*Observation, error) {
	query := `
		SELECT station_id, observation_time, collected_at,
			temp_c, dewpoint_c, wind_dir_degrees, wind_speed_kt,
			visibility_statute_mi, altim_in_hg, flight_category, raw_text
		FROM metars
		WHERE station_id = $1
		ORDER BY observation_time DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, stationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []*Observation
	for rows.Next() {
		var o Observation
		err := rows.Scan(
			&o.StationID,
			&o.ObservationTime,
			&o.CollectedAt,
			&o.TempC,
			&o.DewpointC,
			&o.WindDirDegrees,
			&o.WindSpeedKt,
			&o.VisibilityStatuteMi,
			&o.AltimInHg,
			&o.FlightCategory,
			&o.RawText,
		)
		if err != nil {
			return nil, err
		}
		observations = append(observations, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Serve oldest-first within the newest N.
	for i, j := 0, len(observations)-1; i < j; i, j = i+1, j-1 {
		observations[i], observations[j] = observations[j], observations[i]
	}

	return observations, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
