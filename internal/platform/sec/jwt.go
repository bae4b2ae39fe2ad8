// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Session Tokens

// SessionClaims represents the payload embedded inside a session token.
//
// The subject is the caller's Selector — never the raw national ID. Validity
// is fully determined by signature and expiry; there is no server-side
// revocation list.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionCodec issues and validates signed, time-limited session tokens
// using symmetric HMAC signing.
type SessionCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	issuer string

	// now is injectable for expiry tests. Defaults to time.Now.
	now func() time.Time
}

// NewSessionCodec constructs a codec from the session secret, the fixed
// algorithm identifier, and the configured token lifetime.
//
// Only the HMAC family is supported; the algorithm identifier is pinned at
// construction and enforced again on every validation.
func NewSessionCodec(secret, algorithm string, ttl time.Duration, issuer string) (*SessionCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: session secret must not be empty")
	}

	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("sec: unsupported session algorithm %q", algorithm)
	}

	return &SessionCodec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// TTL returns the configured session token lifetime.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed session token binding the given selector.
func (c *SessionCodec) Issue(selector string) (string, error) {
	currentTime := c.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   selector,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	signedToken, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// Validate checks the signature and validity of a session token and returns
// the bound selector.
//
// Bad signature, expiry, a missing subject claim, a mismatched algorithm, and
// any structurally malformed token all fail the same way: the error carries
// no detail about which check rejected the token.
func (c *SessionCodec) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != c.method {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))

	if err != nil {
		return "", fmt.Errorf("sec: invalid session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("sec: invalid session token")
	}

	return claims.Subject, nil
}
