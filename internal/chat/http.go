// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docsafe-app/docsafe/internal/platform/request"
	"github.com/docsafe-app/docsafe/internal/platform/respond"
	"github.com/docsafe-app/docsafe/internal/platform/validate"
)

// maxMessageLength caps one chat message (in Unicode characters).
const maxMessageLength = 4000

// Handler implements the chat HTTP endpoint.
type Handler struct {
	chatService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{chatService: service}
}

// Routes returns a [chi.Router] with the chat route.
//
// # Endpoints
//   - POST / : Sends one message, returns one reply. Auth is optional; a
//     valid session only personalizes the prompt.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.ask)

	return router
}

// askRequest represents the JSON payload for a chat message.
type askRequest struct {
	Message string `json:"message"`
}

// ask handles POST /api/v1/chat requests.
func (handler *Handler) ask(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input askRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	v := &validate.Validator{}
	if err := v.
		Required("message", input.Message).
		MaxLen("message", input.Message, maxMessageLength).
		Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	// Identity is nil for anonymous callers; that is fine here.
	reply, err := handler.chatService.Ask(req.Context(), requestutil.Identity(req), input.Message)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, map[string]string{"reply": reply})
}
