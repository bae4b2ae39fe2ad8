// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package middleware

import (
	"context"
	"net/http"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/ctxutil"
	"github.com/docsafe-app/docsafe/internal/platform/request"
	"github.com/docsafe-app/docsafe/internal/platform/respond"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
)

// # Authentication & Authorization

// IdentityResolver turns a bearer token into a caller identity.
//
// Implementations return (nil, nil) for an empty token and an error for an
// invalid one; the middleware decides how strict to be about failures.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*sec.Identity, error)
}

// Authenticate resolves the bearer token (if any) and injects the caller
// identity into the request context.
//
// It is deliberately lenient: anonymous requests and requests carrying an
// invalid token both proceed without an identity. Handlers that require a
// caller pair this with [RequireAuth].
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {

			// 1. Pull the bearer token; empty means anonymous
			token := requestutil.BearerToken(req)
			if token == "" {
				next.ServeHTTP(writer, req)
				return
			}

			// 2. Resolve the token to a live identity
			identity, err := resolver.ResolveToken(req.Context(), token)
			if err != nil || identity == nil {
				// Invalid token degrades to anonymous rather than failing the
				// request. Protected routes reject anonymity in RequireAuth.
				next.ServeHTTP(writer, req)
				return
			}

			// 3. Inject the identity for downstream handlers and the logger
			ctx := ctxutil.WithIdentity(req.Context(), identity)
			next.ServeHTTP(writer, req.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no resolved identity.
//
// It must be mounted after [Authenticate] in the chain.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			if ctxutil.GetIdentity(req.Context()) == nil {
				respond.Error(writer, req, apperr.Unauthorized("Authentication required"))
				return
			}
			next.ServeHTTP(writer, req)
		})
	}
}
