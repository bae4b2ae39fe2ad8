// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package document

import (
	"context"
	"io"
)

// DocumentRepository defines the data access contract for document metadata.
//
// # Implementations
//
// The canonical implementation for DocSafe is PostgreSQL (store_postgres.go).
type DocumentRepository interface {
	// Create persists new document metadata and populates document.ID.
	Create(ctx context.Context, document *Document) error

	// FindByID returns the document with the given ID.
	//
	// Returns [apperr.NotFound] if the document does not exist.
	FindByID(ctx context.Context, id int64) (*Document, error)

	// ListByOwner returns every document belonging to ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]Document, error)

	// OwnerIDOf returns just the owner of the given document.
	//
	// This is the cheap authoritative check used both when granting a
	// download token and again when redeeming one.
	// Returns [apperr.NotFound] if the document does not exist.
	OwnerIDOf(ctx context.Context, id int64) (int64, error)
}

// ListCache fronts [DocumentRepository.ListByOwner] with a short-TTL cache.
//
// # Semantics
//
// The cache is purely an optimization: every method failure must degrade to
// a database read, never to a request failure. Implementations log and
// swallow their own errors.
type ListCache interface {
	// Get returns the cached listing for ownerID, or found=false on miss.
	Get(ctx context.Context, ownerID int64) (documents []Document, found bool)

	// Set stores the listing for ownerID with the standard TTL.
	Set(ctx context.Context, ownerID int64, documents []Document)

	// Invalidate drops the cached listing for ownerID.
	Invalidate(ctx context.Context, ownerID int64)
}

// BlobStore is the byte-storage contract for uploaded PDFs.
//
// # Implementations
//
// The canonical implementation is the S3-compatible store in
// internal/storage/minio.
type BlobStore interface {
	// Put streams size bytes from reader into the store under key.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Get opens a streaming reader for the object under key.
	// The caller must close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
