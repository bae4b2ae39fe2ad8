// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package document

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/constants"
	"github.com/docsafe-app/docsafe/internal/platform/ctxutil"
	"github.com/docsafe-app/docsafe/internal/platform/request"
	"github.com/docsafe-app/docsafe/internal/platform/respond"
)

// multipartOverhead is headroom on top of the PDF cap for multipart framing.
const multipartOverhead = 64 << 10

// Handler implements the document HTTP endpoints.
type Handler struct {
	documentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{documentService: service}
}

// Routes returns a [chi.Router] with the session-protected document routes.
//
// # Endpoints
//   - POST /            : Uploads one PDF (multipart field "file").
//   - GET  /            : Lists the caller's documents.
//   - POST /{id}/token  : Issues a download capability token.
//
// The unauthenticated download endpoint is NOT here; see [Handler.Download].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.upload)
	router.Get("/", handler.list)
	router.Post("/{id}/token", handler.grantToken)

	return router
}

// upload handles POST /api/v1/documents requests.
//
// # Returns
//   - Writes HTTP 201 Created with the stored document metadata.
//   - Writes HTTP 400 Bad Request for non-PDF or missing file.
//   - Writes HTTP 413 Payload Too Large past the upload cap.
func (handler *Handler) upload(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Caller Resolution ──────────────────────────────────────────────

	owner, err := requestutil.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Multipart Extraction (size-capped) ─────────────────────────────

	// The hard cap sits on the raw body so an oversized upload is cut off at
	// the socket, not after buffering.
	req.Body = http.MaxBytesReader(writer, req.Body, constants.MaxUploadBytes+multipartOverhead)

	file, header, err := req.FormFile("file")
	if err != nil {
		// MaxBytesReader failures surface here as a generic parse error.
		respond.Error(writer, req, apperr.PayloadTooLarge("Upload rejected: missing file or size over the 10 MiB limit"))
		return
	}
	defer file.Close()

	// ── 3. Application Execution ──────────────────────────────────────────

	document, err := handler.documentService.Upload(req.Context(), owner, UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Content:     file,
	})

	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, document)
}

// list handles GET /api/v1/documents requests.
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	owner, err := requestutil.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	documents, err := handler.documentService.List(req.Context(), owner.UserID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, documents)
}

// grantToken handles POST /api/v1/documents/{id}/token requests.
//
// # Returns
//   - Writes HTTP 200 OK with {token, expires_in}.
//   - Writes HTTP 404 Not Found for unknown or foreign documents alike.
func (handler *Handler) grantToken(writer http.ResponseWriter, req *http.Request) {
	owner, err := requestutil.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	documentID, err := strconv.ParseInt(requestutil.Param(req, "id"), 10, 64)
	if err != nil {
		respond.Error(writer, req, apperr.NotFound("Document"))
		return
	}

	grant, err := handler.documentService.GrantDownload(req.Context(), owner, documentID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, grant)
}

// Download handles GET /api/v1/download?token=... requests.
//
// This endpoint is deliberately outside the authenticated router: the
// capability token is the sole authorization, so the link works when pasted
// into a plain browser tab with no session.
//
// # Returns
//   - Streams the PDF with an attachment Content-Disposition.
//   - Writes HTTP 403 Forbidden with one generic message for every
//     invalid-token cause.
func (handler *Handler) Download(writer http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		respond.Error(writer, req, apperr.TokenInvalid())
		return
	}

	document, reader, err := handler.documentService.Redeem(req.Context(), token)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	defer reader.Close()

	// Headers first, then the byte stream. Filename goes through %q so a
	// quote inside the stored name cannot break out of the header value.
	writer.Header().Set("Content-Type", constants.PDFContentType)
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Filename))
	writer.Header().Set("Content-Length", strconv.FormatInt(document.SizeBytes, 10))
	writer.WriteHeader(http.StatusOK)

	if _, err := io.Copy(writer, reader); err != nil {
		// Headers are gone; all we can do is log the broken stream.
		ctxutil.GetLogger(req.Context()).ErrorContext(req.Context(), "document_stream_interrupted",
			slog.Int64("document_id", document.ID),
			slog.Any("error", err),
		)
	}
}
