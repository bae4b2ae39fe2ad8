// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// These tests live inside the package so they can pin the codec clock and
// exercise the expiry boundary without sleeping.
package sec

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCapabilityCodec(t *testing.T, at time.Time) *CapabilityCodec {
	t.Helper()
	codec, err := NewCapabilityCodec("test-download-secret")
	require.NoError(t, err)
	codec.now = func() time.Time { return at }
	return codec
}

/*
TestCapabilityCodec_RoundTrip verifies that a freshly issued token validates
back to the exact (document, owner) pair.
*/
func TestCapabilityCodec_RoundTrip(t *testing.T) {
	issueTime := time.Unix(1_700_000_000, 0)
	codec := newTestCapabilityCodec(t, issueTime)

	tests := []struct {
		documentID int64
		ownerID    int64
	}{
		{101, 1},
		{0, 0},
		{1, 999999},
		{9223372036854775807, 42},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("doc_%d_owner_%d", tt.documentID, tt.ownerID), func(t *testing.T) {
			token := codec.Issue(tt.documentID, tt.ownerID, 180*time.Second)

			capability, err := codec.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, tt.documentID, capability.DocumentID)
			assert.Equal(t, tt.ownerID, capability.OwnerID)
		})
	}
}

/*
TestCapabilityCodec_WireFormat verifies the bit-exact external contract:
four '|'-joined fields with a 64-char lowercase hex signature over the
first three.
*/
func TestCapabilityCodec_WireFormat(t *testing.T) {
	issueTime := time.Unix(1_700_000_000, 0)
	codec := newTestCapabilityCodec(t, issueTime)

	token := codec.Issue(101, 1, 180*time.Second)
	expectedExpiry := issueTime.Add(180 * time.Second).Unix()

	prefix := fmt.Sprintf("101|1|%d|", expectedExpiry)
	require.True(t, len(token) > len(prefix))
	assert.Equal(t, prefix, token[:len(prefix)])
	assert.Regexp(t, `^[0-9a-f]{64}$`, token[len(prefix):])
}

/*
TestCapabilityCodec_ExpiryBoundary verifies the strict expiry semantics:
a token with ttl=1 is still valid exactly at issue+1 and dead at issue+2.
*/
func TestCapabilityCodec_ExpiryBoundary(t *testing.T) {
	issueTime := time.Unix(1_700_000_000, 0)
	codec := newTestCapabilityCodec(t, issueTime)
	token := codec.Issue(101, 1, 1*time.Second)

	codec.now = func() time.Time { return issueTime.Add(1 * time.Second) }
	_, err := codec.Validate(token)
	assert.NoError(t, err)

	codec.now = func() time.Time { return issueTime.Add(2 * time.Second) }
	_, err = codec.Validate(token)
	assert.ErrorIs(t, err, ErrCapabilityInvalid)
}

/*
TestCapabilityCodec_TamperedSignature verifies that flipping any single
character of the signature invalidates the token.
*/
func TestCapabilityCodec_TamperedSignature(t *testing.T) {
	codec := newTestCapabilityCodec(t, time.Unix(1_700_000_000, 0))
	token := codec.Issue(101, 1, 180*time.Second)

	sigStart := len(token) - 64
	for i := sigStart; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}

		_, err := codec.Validate(string(mutated))
		assert.ErrorIs(t, err, ErrCapabilityInvalid, "flip at position %d", i)
	}
}

/*
TestCapabilityCodec_TamperedPayload verifies that changing any payload field
breaks the signature check.
*/
func TestCapabilityCodec_TamperedPayload(t *testing.T) {
	issueTime := time.Unix(1_700_000_000, 0)
	codec := newTestCapabilityCodec(t, issueTime)
	token := codec.Issue(101, 1, 180*time.Second)
	expiry := issueTime.Add(180 * time.Second).Unix()
	signature := token[len(token)-64:]

	tests := []struct {
		name  string
		token string
	}{
		{"different_document", fmt.Sprintf("102|1|%d|%s", expiry, signature)},
		{"different_owner", fmt.Sprintf("101|2|%d|%s", expiry, signature)},
		{"extended_expiry", fmt.Sprintf("101|1|%d|%s", expiry+3600, signature)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Validate(tt.token)
			assert.ErrorIs(t, err, ErrCapabilityInvalid)
		})
	}
}

/*
TestCapabilityCodec_Malformed verifies that structurally broken tokens are
rejected as invalid, never panicking.
*/
func TestCapabilityCodec_Malformed(t *testing.T) {
	codec := newTestCapabilityCodec(t, time.Unix(1_700_000_000, 0))
	valid := codec.Issue(101, 1, 180*time.Second)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no_delimiters", "notatoken"},
		{"three_fields", "101|1|1700000180"},
		{"five_fields", valid + "|extra"},
		{"non_numeric_doc", strings.Replace(valid, "101", "abc", 1)},
		{"signed_garbage_ids", signedGarbage(codec)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Validate(tt.token)
			assert.ErrorIs(t, err, ErrCapabilityInvalid)
		})
	}
}

// signedGarbage builds a token whose signature is correct but whose ID
// fields are not parseable integers. Parse failure must still read as the
// generic invalid result.
func signedGarbage(codec *CapabilityCodec) string {
	payload := "abc|def|1999999999"
	return payload + "|" + codec.sign(payload)
}
