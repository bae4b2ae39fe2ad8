// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsafe-app/docsafe/internal/platform/sec"
)

/*
TestHashIdentifier_RoundTrip verifies that a hashed identifier verifies
against itself and against nothing else.
*/
func TestHashIdentifier_RoundTrip(t *testing.T) {
	identifiers := []string{
		"9001015009087",
		"8205230111089",
		"0000000000000",
	}

	for _, identifier := range identifiers {
		encoded, err := sec.HashIdentifier(identifier)
		require.NoError(t, err)

		assert.True(t, sec.VerifyIdentifier(identifier, encoded))
		assert.False(t, sec.VerifyIdentifier("1111111111111", encoded))
	}
}

/*
TestHashIdentifier_SaltedOutput verifies that hashing the same identifier
twice produces different encodings (fresh salt each time).
*/
func TestHashIdentifier_SaltedOutput(t *testing.T) {
	first, err := sec.HashIdentifier("9001015009087")
	require.NoError(t, err)
	second, err := sec.HashIdentifier("9001015009087")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "$argon2id$"))
}

/*
TestVerifyIdentifier_MalformedHash verifies that structurally broken stored
hashes fail verification without panicking.
*/
func TestVerifyIdentifier_MalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong_scheme", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$a2V5"},
		{"missing_fields", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA"},
		{"bad_version", "$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$a2V5"},
		{"bad_params", "$argon2id$v=19$m=x,t=y,p=z$c2FsdA$a2V5"},
		{"bad_salt_b64", "$argon2id$v=19$m=65536,t=3,p=2$!!!$a2V5"},
		{"bad_key_b64", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, sec.VerifyIdentifier("9001015009087", tt.encoded))
		})
	}
}
