// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package document

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docsafe-app/docsafe/internal/platform/dberr"
)

// PostgresDocumentRepository implements the DocumentRepository interface using pgx.
type PostgresDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new PostgreSQL implementation of the DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{pool: pool}
}

// Create persists new document metadata into the docsafe.document table.
func (repository *PostgresDocumentRepository) Create(ctx context.Context, document *Document) error {
	const query = `
		INSERT INTO docsafe.document (ownerid, filename, objectkey, sizebytes, uploadedat)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if document.UploadedAt.IsZero() {
		document.UploadedAt = time.Now()
	}

	err := repository.pool.QueryRow(ctx, query,
		document.OwnerID,
		document.Filename,
		document.ObjectKey,
		document.SizeBytes,
		document.UploadedAt,
	).Scan(&document.ID)

	if err != nil {
		return dberr.Wrap(err, "Document")
	}

	return nil
}

// FindByID retrieves a document's full metadata by its ID.
//
// # Returns
//
// Returns [*Document] if found, or [apperr.NotFound] if no row exists.
func (repository *PostgresDocumentRepository) FindByID(ctx context.Context, id int64) (*Document, error) {
	const query = `
		SELECT id, ownerid, filename, objectkey, sizebytes, uploadedat
		FROM docsafe.document
		WHERE id = $1`

	document := &Document{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&document.ID,
		&document.OwnerID,
		&document.Filename,
		&document.ObjectKey,
		&document.SizeBytes,
		&document.UploadedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}

	return document, nil
}

// ListByOwner retrieves every document for an owner, newest first.
func (repository *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Document, error) {
	const query = `
		SELECT id, ownerid, filename, objectkey, sizebytes, uploadedat
		FROM docsafe.document
		WHERE ownerid = $1
		ORDER BY uploadedat DESC, id DESC`

	rows, err := repository.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}
	defer rows.Close()

	documents := make([]Document, 0)
	for rows.Next() {
		var document Document
		if err := rows.Scan(
			&document.ID,
			&document.OwnerID,
			&document.Filename,
			&document.ObjectKey,
			&document.SizeBytes,
			&document.UploadedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Document")
		}
		documents = append(documents, document)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Document")
	}

	return documents, nil
}

// OwnerIDOf retrieves just the owner column for a document.
//
// Kept as a separate narrow query: the redemption hot path needs only this
// one value before deciding whether to touch the blob store.
func (repository *PostgresDocumentRepository) OwnerIDOf(ctx context.Context, id int64) (int64, error) {
	const query = `SELECT ownerid FROM docsafe.document WHERE id = $1`

	var ownerID int64
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&ownerID); err != nil {
		return 0, dberr.Wrap(err, "Document")
	}

	return ownerID, nil
}
