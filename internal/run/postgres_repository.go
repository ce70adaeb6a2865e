package run

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL run repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Append stores a new run record.
func (r *PostgresRepository) Append(ctx context.Context, rec *Run) error {
	query := `
		INSERT INTO runs (checked_at, status, station_ids, source_url, metar_count, error_message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.CheckedAt,
		string(rec.Status),
		rec.StationIDs,
		rec.SourceURL,
		rec.MetarCount,
		rec.ErrorMessage,
		rec.ExpiresAt,
	)
	return err
}

// ListRecent retrieves the newest limit runs, ordered oldest-first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*Run, error) {
	query := `
		SELECT checked_at, status, station_ids, source_url, metar_count, error_message, expires_at
		FROM runs
		ORDER BY checked_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var rec Run
		var status string
		err := rows.Scan(
			&rec.CheckedAt,
			&status,
			&rec.StationIDs,
			&rec.SourceURL,
			&rec.MetarCount,
			&rec.ErrorMessage,
			&rec.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Status = Status(status)
		runs = append(runs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}

	return runs, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
