// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Session codec tests live inside the package to pin the codec clock.
package sec

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSelector = "6ff843ba685842aa82031714fd31856f"

func newTestSessionCodec(t *testing.T) *SessionCodec {
	t.Helper()
	codec, err := NewSessionCodec("test-session-secret", "HS256", 30*time.Minute, "docsafe.app")
	require.NoError(t, err)
	return codec
}

/*
TestSessionCodec_RoundTrip verifies that an issued token validates back to
the selector it was bound to.
*/
func TestSessionCodec_RoundTrip(t *testing.T) {
	codec := newTestSessionCodec(t)

	token, err := codec.Issue(testSelector)
	require.NoError(t, err)

	selector, err := codec.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, testSelector, selector)
}

/*
TestSessionCodec_Expired verifies that validation fails once the configured
lifetime has elapsed.
*/
func TestSessionCodec_Expired(t *testing.T) {
	codec := newTestSessionCodec(t)
	issueTime := time.Unix(1_700_000_000, 0)

	codec.now = func() time.Time { return issueTime }
	token, err := codec.Issue(testSelector)
	require.NoError(t, err)

	// Just inside the lifetime: still valid.
	codec.now = func() time.Time { return issueTime.Add(29 * time.Minute) }
	_, err = codec.Validate(token)
	assert.NoError(t, err)

	// Past the lifetime: rejected.
	codec.now = func() time.Time { return issueTime.Add(31 * time.Minute) }
	_, err = codec.Validate(token)
	assert.Error(t, err)
}

/*
TestSessionCodec_WrongSecret verifies that a token signed under a different
key is rejected.
*/
func TestSessionCodec_WrongSecret(t *testing.T) {
	codec := newTestSessionCodec(t)
	other, err := NewSessionCodec("a-different-secret", "HS256", 30*time.Minute, "docsafe.app")
	require.NoError(t, err)

	token, err := other.Issue(testSelector)
	require.NoError(t, err)

	_, err = codec.Validate(token)
	assert.Error(t, err)
}

/*
TestSessionCodec_AlgorithmPinned verifies that a structurally valid token
signed with a different HMAC variant is rejected.
*/
func TestSessionCodec_AlgorithmPinned(t *testing.T) {
	codec := newTestSessionCodec(t)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testSelector,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	_, err = codec.Validate(signed)
	assert.Error(t, err)
}

/*
TestSessionCodec_MissingSubject verifies that a signed, unexpired token
without a subject claim is rejected.
*/
func TestSessionCodec_MissingSubject(t *testing.T) {
	codec := newTestSessionCodec(t)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	_, err = codec.Validate(signed)
	assert.Error(t, err)
}

/*
TestSessionCodec_Malformed verifies that structurally broken tokens are
rejected without panicking.
*/
func TestSessionCodec_Malformed(t *testing.T) {
	codec := newTestSessionCodec(t)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "....."} {
		_, err := codec.Validate(token)
		assert.Error(t, err, "token %q", token)
	}
}

/*
TestSessionCodec_UnsupportedAlgorithm verifies construction fails for
non-HMAC algorithm identifiers.
*/
func TestSessionCodec_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewSessionCodec("secret", "RS256", 30*time.Minute, "docsafe.app")
	assert.Error(t, err)

	_, err = NewSessionCodec("secret", "none", 30*time.Minute, "docsafe.app")
	assert.Error(t, err)
}
