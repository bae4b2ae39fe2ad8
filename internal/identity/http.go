// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docsafe-app/docsafe/internal/platform/constants"
	"github.com/docsafe-app/docsafe/internal/platform/request"
	"github.com/docsafe-app/docsafe/internal/platform/respond"
	"github.com/docsafe-app/docsafe/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// This handler covers the account lifecycle entry points (Registration and
// Login). It contains no business logic or database queries.
type Handler struct {
	identityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{identityService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register : Creates a new account and returns a session token.
//   - POST /login    : Authenticates and returns a session token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Name     string `json:"name"`
	IDNumber string `json:"id_number"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the session token grant.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if an account already exists.
func (handler *Handler) register(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	v := &validate.Validator{}
	if err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Digits("id_number", input.IDNumber, constants.NationalIDLength).
		Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	grant, err := handler.identityService.Register(req.Context(), RegisterInput{
		Name:     input.Name,
		IDNumber: input.IDNumber,
	})

	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, grant)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	IDNumber string `json:"id_number"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the session token grant.
//   - Writes HTTP 401 Unauthorized for every failure, with one message for
//     all causes.
func (handler *Handler) login(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	// No boundary validation here: the service folds malformed input into
	// the same generic credential failure to keep responses oracle-free.
	grant, err := handler.identityService.Login(req.Context(), LoginInput{
		IDNumber: input.IDNumber,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, grant)
}
