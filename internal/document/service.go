// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package document

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/constants"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
	"github.com/docsafe-app/docsafe/pkg/safename"
)

// Service implements the document use cases.
type Service struct {
	documents    DocumentRepository
	cache        ListCache
	blobs        BlobStore
	capabilities *sec.CapabilityCodec
	grantTTL     time.Duration
}

// NewService constructs the document [Service] with its dependencies.
//
// # Parameters
//   - documents: Metadata repository (PostgreSQL).
//   - cache: Listing cache (Redis). Must not be nil; pass a no-op in tests.
//   - blobs: PDF byte store (MinIO).
//   - capabilities: Download token codec.
//   - grantTTL: Lifetime of issued download tokens.
func NewService(
	documents DocumentRepository,
	cache ListCache,
	blobs BlobStore,
	capabilities *sec.CapabilityCodec,
	grantTTL time.Duration,
) *Service {
	return &Service{
		documents:    documents,
		cache:        cache,
		blobs:        blobs,
		capabilities: capabilities,
		grantTTL:     grantTTL,
	}
}

// UploadInput holds a single incoming PDF.
type UploadInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Content     io.Reader
}

/*
Upload validates and stores one PDF for the calling owner.

Parameters:
  - ctx: Context for storage operations.
  - owner: The authenticated caller.
  - input: The multipart file metadata and content stream.

Returns:
  - The persisted [*Document] with its assigned ID.
  - [apperr.ValidationError] for a non-PDF content type or empty file.
  - [apperr.PayloadTooLarge] when the declared size exceeds the cap.

Business Rules:
  - Only application/pdf is accepted; the declared type is trusted after the
    transport layer has already capped the body size.
  - The object key is owner-scoped and collision-free:
    "<owner_id>/<uuid>_<sanitized-filename>".
*/
func (service *Service) Upload(ctx context.Context, owner *sec.Identity, input UploadInput) (*Document, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	if input.ContentType != constants.PDFContentType {
		return nil, apperr.ValidationError("Only PDF uploads are accepted")
	}
	if input.SizeBytes <= 0 {
		return nil, apperr.ValidationError("Uploaded file is empty")
	}
	if input.SizeBytes > constants.MaxUploadBytes {
		return nil, apperr.PayloadTooLarge("File exceeds the 10 MiB upload limit")
	}

	// ── 2. Blob Persistence ───────────────────────────────────────────────

	objectKey := fmt.Sprintf("%d/%s_%s", owner.UserID, uuid.NewString(), safename.From(input.Filename))

	if err := service.blobs.Put(ctx, objectKey, input.Content, input.SizeBytes, constants.PDFContentType); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}

	// ── 3. Metadata Persistence ───────────────────────────────────────────

	document := &Document{
		OwnerID:   owner.UserID,
		Filename:  input.Filename,
		ObjectKey: objectKey,
		SizeBytes: input.SizeBytes,
	}

	if err := service.documents.Create(ctx, document); err != nil {
		return nil, err
	}

	// ── 4. Cache Invalidation ─────────────────────────────────────────────

	service.cache.Invalidate(ctx, owner.UserID)

	return document, nil
}

/*
List returns every document belonging to the owner, newest first.

The Redis cache is consulted first; a miss falls through to PostgreSQL and
repopulates the cache. Cache failures never fail the request.
*/
func (service *Service) List(ctx context.Context, ownerID int64) ([]Document, error) {
	if cached, found := service.cache.Get(ctx, ownerID); found {
		return cached, nil
	}

	documents, err := service.documents.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	service.cache.Set(ctx, ownerID, documents)
	return documents, nil
}

// DownloadGrant is an issued capability token, ready for JSON presentation.
type DownloadGrant struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

/*
GrantDownload issues a capability token for one of the caller's documents.

Parameters:
  - ctx: Context for the ownership lookup.
  - owner: The authenticated caller.
  - documentID: The document to authorize.

Returns:
  - A [*DownloadGrant] carrying the signed token and its lifetime.
  - [apperr.NotFound] when the document does not exist or belongs to someone
    else. The two cases are indistinguishable so document IDs cannot be
    probed for existence.
*/
func (service *Service) GrantDownload(ctx context.Context, owner *sec.Identity, documentID int64) (*DownloadGrant, error) {
	ownerID, err := service.documents.OwnerIDOf(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if ownerID != owner.UserID {
		return nil, apperr.NotFound("Document")
	}

	token := service.capabilities.Issue(documentID, ownerID, service.grantTTL)

	return &DownloadGrant{
		Token:     token,
		ExpiresIn: int(service.grantTTL.Seconds()),
	}, nil
}

/*
Redeem validates a capability token and opens the document stream.

Parameters:
  - ctx: Context for the lookups.
  - token: The raw capability token from the query string.

Returns:
  - The [*Document] metadata (for the response headers).
  - An open [io.ReadCloser] over the PDF bytes. The caller must close it.
  - [apperr.TokenInvalid] for a bad token AND for an ownership mismatch
    between the token's claim and the store — one merged error for all.

Security:

The token alone authorizes the download; no session is required. The
ownership re-check defends against a document changing hands (or being
re-created under the same ID) between grant and redemption.
*/
func (service *Service) Redeem(ctx context.Context, token string) (*Document, io.ReadCloser, error) {
	// ── 1. Token Validation ───────────────────────────────────────────────

	capability, err := service.capabilities.Validate(token)
	if err != nil {
		return nil, nil, apperr.TokenInvalid()
	}

	// ── 2. Authoritative Ownership Re-Check ───────────────────────────────

	currentOwnerID, err := service.documents.OwnerIDOf(ctx, capability.DocumentID)
	if err != nil || currentOwnerID != capability.OwnerID {
		return nil, nil, apperr.TokenInvalid()
	}

	// ── 3. Stream Open ────────────────────────────────────────────────────

	document, err := service.documents.FindByID(ctx, capability.DocumentID)
	if err != nil {
		return nil, nil, apperr.TokenInvalid()
	}

	reader, err := service.blobs.Get(ctx, document.ObjectKey)
	if err != nil {
		return nil, nil, apperr.StoreUnavailable(err)
	}

	return document, reader, nil
}
