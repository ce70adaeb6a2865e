package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAdminRepository is a PostgreSQL implementation of AdminRepository.
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminRepository creates a new PostgreSQL admin repository.
func NewPostgresAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

// FindByUsername finds an admin by username.
func (r *PostgresAdminRepository) FindByUsername(ctx context.Context, username string) (*Admin, error) {
	query := `
		SELECT id, username, password_hash, reset_code_hash, reset_expires, created_at, updated_at
		FROM admins
		WHERE lower(username) = lower($1)
	`

	var admin Admin
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.ResetCodeHash,
		&admin.ResetExpires,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}

// Count returns the number of admin accounts.
func (r *PostgresAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create creates a new admin account.
func (r *PostgresAdminRepository) Create(ctx context.Context, admin *Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash, reset_code_hash, reset_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.Username,
		admin.PasswordHash,
		admin.ResetCodeHash,
		admin.ResetExpires,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAdminExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing admin account.
func (r *PostgresAdminRepository) Update(ctx context.Context, admin *Admin) error {
	query := `
		UPDATE admins
		SET password_hash = $2, reset_code_hash = $3, reset_expires = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.PasswordHash,
		admin.ResetCodeHash,
		admin.ResetExpires,
		admin.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}
