// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package identity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsafe-app/docsafe/internal/identity"
	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
)

// memoryUserRepository is an in-memory UserRepository with the same
// uniqueness semantics as the real store.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*identity.User // keyed by selector
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*identity.User)}
}

func (r *memoryUserRepository) FindBySelector(_ context.Context, selector string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, found := r.users[selector]
	if !found {
		return nil, apperr.NotFound("Account")
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the unique index on the selector column.
	if _, exists := r.users[user.Selector]; exists {
		return apperr.Conflict("Account already exists")
	}

	r.nextID++
	user.ID = r.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	r.users[user.Selector] = &copied
	return nil
}

// delete removes an account, simulating a token that outlives its row.
func (r *memoryUserRepository) delete(selector string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, selector)
}

func newTestService(t *testing.T) (*identity.Service, *memoryUserRepository) {
	t.Helper()

	selectors, err := sec.NewSelectorDeriver("test-selector-secret")
	require.NoError(t, err)

	sessions, err := sec.NewSessionCodec("test-session-secret", "HS256", 30*time.Minute, "docsafe.test")
	require.NoError(t, err)

	repo := newMemoryUserRepository()
	service, err := identity.NewService(repo, selectors, sessions)
	require.NoError(t, err)

	return service, repo
}

/*
TestService_Register verifies enrollment, token issuance, and the conflict path.
*/
func TestService_Register(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	// 1. First registration succeeds and yields a usable token
	grant, err := service.Register(ctx, identity.RegisterInput{
		Name:     "Thandi M",
		IDNumber: "9001015009087",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", grant.TokenType)
	assert.NotEmpty(t, grant.AccessToken)
	assert.Equal(t, int((30 * time.Minute).Seconds()), grant.ExpiresIn)

	caller, err := service.ResolveToken(ctx, grant.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, caller)
	assert.Equal(t, "Thandi M", caller.DisplayName)
	assert.Len(t, caller.Selector, 64)

	// 2. Registering the same identifier again conflicts
	_, err = service.Register(ctx, identity.RegisterInput{
		Name:     "Someone Else",
		IDNumber: "9001015009087",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_Register_Validation rejects malformed enrollment input.
*/
func TestService_Register_Validation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input identity.RegisterInput
	}{
		{"empty_name", identity.RegisterInput{Name: "", IDNumber: "9001015009087"}},
		{"short_id", identity.RegisterInput{Name: "Thandi M", IDNumber: "12345"}},
		{"letters_in_id", identity.RegisterInput{Name: "Thandi M", IDNumber: "90010150090AB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestService_Login verifies the happy path and that every failure collapses
into the one generic credential error.
*/
func TestService_Login(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, identity.RegisterInput{
		Name:     "Thandi M",
		IDNumber: "9001015009087",
	})
	require.NoError(t, err)

	// 1. Correct credentials succeed
	grant, err := service.Login(ctx, identity.LoginInput{
		IDNumber: "9001015009087",
		Password: "9001015009087",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, grant.AccessToken)

	// 2. Every failure path yields the identical error
	failures := []struct {
		name  string
		input identity.LoginInput
	}{
		{"wrong_credential", identity.LoginInput{IDNumber: "9001015009087", Password: "1111111111111"}},
		{"unknown_account", identity.LoginInput{IDNumber: "8001015009086", Password: "8001015009086"}},
		{"malformed_id", identity.LoginInput{IDNumber: "not-a-number", Password: "x"}},
		{"empty_password", identity.LoginInput{IDNumber: "9001015009087", Password: ""}},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(ctx, tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, "Invalid credentials", ae.Message)
		})
	}
}

/*
TestService_ResolveToken covers anonymous, valid, garbage, and orphaned tokens.
*/
func TestService_ResolveToken(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	grant, err := service.Register(ctx, identity.RegisterInput{
		Name:     "Thandi M",
		IDNumber: "9001015009087",
	})
	require.NoError(t, err)

	// 1. Empty token resolves to anonymous without error
	caller, err := service.ResolveToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, caller)

	// 2. Valid token resolves to the caller
	caller, err = service.ResolveToken(ctx, grant.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, caller)
	assert.Equal(t, int64(1), caller.UserID)

	// 3. Garbage token is rejected
	_, err = service.ResolveToken(ctx, "not.a.token")
	require.Error(t, err)

	// 4. A token whose account row is gone is rejected the same way
	repo.delete(caller.Selector)
	_, err = service.ResolveToken(ctx, grant.AccessToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}
