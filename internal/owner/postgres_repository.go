package owner

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

// NewPostgresRepository creates a new PostgreSQL owner repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an owner by its identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Owner, error) {
	query := `
		SELECT owner_id, topic, alerts_enabled, updated_at
		FROM owners
		WHERE owner_id = $1
	`

	var o Owner
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Topic,
		&o.AlertsEnabled,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	return &o, nil
}

// List retrieves all owners ordered by identifier.
func (r *PostgresRepository) List(ctx context.Context) ([]*Owner, error) {
	query := `
		SELECT owner_id, topic, alerts_enabled, updated_at
		FROM owners
		ORDER BY owner_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []*Owner
	for rows.Next() {
		var o Owner
		if err := rows.Scan(&o.ID, &o.Topic, &o.AlertsEnabled, &o.UpdatedAt); err != nil {
			return nil, err
		}
		owners = append(owners, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return owners, nil
}

// Put creates or replaces an owner config.
func (r *PostgresRepository) Put(ctx context.Context, o *Owner) error {
	query := `
		INSERT INTO owners (owner_id, topic, alerts_enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE SET
			topic = EXCLUDED.topic,
			alerts_enabled = EXCLUDED.alerts_enabled,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, o.ID, o.Topic, o.AlertsEnabled, o.UpdatedAt)
	return err
}

// Delete removes an owner config.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM owners WHERE owner_id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrOwnerNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
