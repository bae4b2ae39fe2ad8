// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package identity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docsafe-app/docsafe/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE codes) are mapped through
// [dberr.Wrap] so no storage detail leaks past this layer. The unique index
// on the selector column is what turns a duplicate-registration race into a
// clean Conflict instead of a second row.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new account into the docsafe.account table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - user: The account entity to persist. ID and CreatedAt are populated
//     from the returned row.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO docsafe.account (name, selector, credentialhash, createdat)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	err := repository.pool.QueryRow(ctx, query,
		user.Name,
		user.Selector,
		user.CredentialHash,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

// FindBySelector retrieves an account by its unique selector.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindBySelector(ctx context.Context, selector string) (*User, error) {
	const query = `
		SELECT id, name, selector, credentialhash, createdat
		FROM docsafe.account
		WHERE selector = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, selector).Scan(
		&user.ID,
		&user.Name,
		&user.Selector,
		&user.CredentialHash,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return user, nil
}
