// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Package document implements PDF upload, listing, and capability-based
// download for registered accounts.
//
// # Architecture
//
// Metadata lives in PostgreSQL, bytes live in the object store, and a small
// Redis cache fronts the per-owner listing. Download authorization is a
// self-contained signed token ([sec.CapabilityCodec]); the redemption path
// still re-checks ownership against the store before streaming a byte.
package document

import (
	"time"
)

// Document represents a stored PDF's metadata.
//
// # Rules
//   - Filename is the original upload name, preserved for display and for
//     the download Content-Disposition header.
//   - ObjectKey locates the bytes in the blob store and never leaves the
//     server.
//   - OwnerID scopes every read; there is no cross-owner sharing.
type Document struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"-"`
	Filename   string    `json:"filename"`
	ObjectKey  string    `json:"-"` // Internal storage locator. Omitted from JSON.
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}
