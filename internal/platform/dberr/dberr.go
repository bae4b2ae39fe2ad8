// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
)

// pgUniqueViolation is the Postgres SQLSTATE for unique-constraint violations.
const pgUniqueViolation = "23505"

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and classifies it into an [apperr.AppError].
// Internal database details never leak to the client.
//
// The unique-violation mapping carries weight here: concurrent registrations
// for the same identifier race to insert, the index arbitrates, and the loser
// surfaces as a 409 rather than a 500.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique-constraint violations become Conflict
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	// 3. Everything else is an opaque store failure
	return apperr.StoreUnavailable(err)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
