// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package identity

import (
	"context"
	"fmt"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/constants"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
	"github.com/docsafe-app/docsafe/internal/platform/validate"
)

// dummyIdentifier feeds the decoy hash used for timing parity on login.
// Its only property of interest is that it is a valid hasher input.
const dummyIdentifier = "0000000000000"

// Service implements the account and session use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to selector derivation,
// hashing, or the login failure paths must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	selectors      *sec.SelectorDeriver
	sessions       *sec.SessionCodec

	// dummyHash is verified against on login when no account matches, so the
	// absent-account path costs roughly the same as the wrong-credential path.
	dummyHash string
}

// NewService constructs the identity [Service] with its dependencies.
//
// The decoy hash is computed once here rather than per login; argon2id is
// deliberately expensive and the decoy's value is irrelevant.
func NewService(
	userRepo UserRepository,
	selectors *sec.SelectorDeriver,
	sessions *sec.SessionCodec,
) (*Service, error) {
	dummyHash, err := sec.HashIdentifier(dummyIdentifier)
	if err != nil {
		return nil, fmt.Errorf("identity_service_decoy_hash_failed: %w", err)
	}

	return &Service{
		userRepository: userRepo,
		selectors:      selectors,
		sessions:       sessions,
		dummyHash:      dummyHash,
	}, nil
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	IDNumber string
}

// TokenGrant represents an issued session token, ready for JSON presentation.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

/*
Register validates, derives, hashes, and persists a brand new account, then
issues a session token for it.

Parameters:
  - ctx: Context for the database operation.
  - input: The user-provided registration details.

Returns:
  - A [*TokenGrant] carrying the signed session token.
  - [apperr.ValidationError] if the name or identifier is malformed.
  - [apperr.Conflict] if an account already exists for this identifier.

Business Rules:
  - The identifier must be exactly 13 ASCII digits, re-checked here even
    though the transport layer validates it first.
  - The raw identifier is never persisted; only its selector and its
    memory-hard hash reach the store.
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*TokenGrant, error) {
	// ── 1. Defensive Validation ───────────────────────────────────────────

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Digits("id_number", input.IDNumber, constants.NationalIDLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Derivation & Hashing ───────────────────────────────────────────

	selector := service.selectors.Derive(input.IDNumber)

	// Fast-path conflict check. The unique index on the selector column
	// remains the final arbiter under concurrent registration.
	if _, err := service.userRepository.FindBySelector(ctx, selector); err == nil {
		return nil, apperr.Conflict("Account already exists")
	}

	credentialHash, err := sec.HashIdentifier(input.IDNumber)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	user := &User{
		Name:           input.Name,
		Selector:       selector,
		CredentialHash: credentialHash,
	}

	// A racing duplicate insert comes back from the store as Conflict.
	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	return service.issueGrant(selector)
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	IDNumber string
	Password string
}

/*
Login validates credentials and issues a session token.

Parameters:
  - ctx: Context for the database operation.
  - input: Contains the identifier and the plain-text credential.

Returns:
  - A [*TokenGrant] carrying the signed session token.
  - [apperr.InvalidCredentials] for every failure path.

Flow:
 1. Derive the selector from the identifier.
 2. Lookup the account by selector.
 3. Verify the credential against the stored memory-hard hash.

Every failure — malformed identifier, absent account, wrong credential —
returns the identical error value, and the absent-account path still performs
a hash verification against a decoy so response timing carries no signal.
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*TokenGrant, error) {
	// ── 1. Format Check (merged failure) ──────────────────────────────────

	v := &validate.Validator{}
	v.Digits("id_number", input.IDNumber, constants.NationalIDLength).
		Required("password", input.Password)
	if v.HasErrors() {
		return nil, apperr.InvalidCredentials()
	}

	// ── 2. Fetch Account ──────────────────────────────────────────────────

	selector := service.selectors.Derive(input.IDNumber)
	user, err := service.userRepository.FindBySelector(ctx, selector)
	if err != nil {
		// Burn the same hashing cost as the wrong-credential path.
		sec.VerifyIdentifier(input.Password, service.dummyHash)
		return nil, apperr.InvalidCredentials()
	}

	// ── 3. Credential Verification ────────────────────────────────────────

	if !sec.VerifyIdentifier(input.Password, user.CredentialHash) {
		return nil, apperr.InvalidCredentials()
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	return service.issueGrant(user.Selector)
}

/*
ResolveToken turns a bearer token into the caller's identity.

Parameters:
  - ctx: Context for the account lookup.
  - token: The raw session token. Empty means anonymous.

Returns:
  - (nil, nil) for an empty token.
  - A [*sec.Identity] when the token is valid and the account exists.
  - [apperr.Unauthorized] when the token fails validation or the account
    behind the selector is gone.

This is the single resolution path behind both strict and optional
authentication; the middleware decides how to treat a failure.
*/
func (service *Service) ResolveToken(ctx context.Context, token string) (*sec.Identity, error) {
	if token == "" {
		return nil, nil
	}

	selector, err := service.sessions.Validate(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid session")
	}

	user, err := service.userRepository.FindBySelector(ctx, selector)
	if err != nil {
		// The token outlived the account. Treat it like any other bad token.
		return nil, apperr.Unauthorized("Invalid session")
	}

	return &sec.Identity{
		UserID:      user.ID,
		DisplayName: user.Name,
		Selector:    user.Selector,
	}, nil
}

// issueGrant signs a session token for the selector and wraps it in the
// standard grant shape.
func (service *Service) issueGrant(selector string) (*TokenGrant, error) {
	accessToken, err := service.sessions.Issue(selector)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_issue_failed: %w", err)
	}

	return &TokenGrant{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(service.sessions.TTL().Seconds()),
	}, nil
}
