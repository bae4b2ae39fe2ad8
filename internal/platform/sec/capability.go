// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// # Capability Tokens

// ErrCapabilityInvalid is the single rejection value for every capability
// validation failure. Signature mismatch, expiry, malformed structure and
// parse failures are deliberately indistinguishable: the download endpoint
// must not leak which check failed.
var ErrCapabilityInvalid = errors.New("sec: invalid capability token")

// Capability is the decoded payload of a valid download token.
type Capability struct {
	DocumentID int64
	OwnerID    int64
}

// CapabilityCodec issues and validates self-contained download authorizations.
//
// # Wire Format
//
//	"<doc_id>|<owner_id>|<expiry_unix_seconds>|<hex_signature>"
//
// The signature is HMAC-SHA256 over the first three fields joined by '|'
// with no trailing delimiter. This format is a bit-exact external contract;
// tokens are handed to third parties (pasted into browsers) and must remain
// verifiable without a session or a database round trip.
type CapabilityCodec struct {
	key []byte

	// now is injectable for expiry-boundary tests. Defaults to time.Now.
	now func() time.Time
}

// NewCapabilityCodec constructs a codec from the capability secret. The key
// must be distinct from both the session and selector secrets.
func NewCapabilityCodec(secret string) (*CapabilityCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: capability secret must not be empty")
	}
	return &CapabilityCodec{key: []byte(secret), now: time.Now}, nil
}

// Issue creates a signed download token for the (document, owner) pair.
//
// Expiry is absolute UNIX time computed at issuance. Once that second has
// passed the token is permanently dead; no clock-skew grace is applied.
func (c *CapabilityCodec) Issue(documentID, ownerID int64, ttl time.Duration) string {
	expiry := c.now().Add(ttl).Unix()
	payload := fmt.Sprintf("%d|%d|%d", documentID, ownerID, expiry)
	return payload + "|" + c.sign(payload)
}

// Validate checks a download token and returns the authorized pair.
//
// # Checks, in order
//
//  1. Exactly four '|'-delimited fields.
//  2. Signature over the first three fields, compared in constant time.
//  3. Expiry: valid through the expiry second itself, invalid one tick past.
//  4. Integer parse of document and owner IDs.
//
// Every anomaly returns [ErrCapabilityInvalid]; nothing here panics or
// propagates detail.
func (c *CapabilityCodec) Validate(token string) (Capability, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 4 {
		return Capability{}, ErrCapabilityInvalid
	}

	payload := parts[0] + "|" + parts[1] + "|" + parts[2]
	expected := c.sign(payload)

	// hmac.Equal is constant-time. This is the single most security-critical
	// comparison in the system.
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return Capability{}, ErrCapabilityInvalid
	}

	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Capability{}, ErrCapabilityInvalid
	}
	if c.now().Unix() > expiry {
		return Capability{}, ErrCapabilityInvalid
	}

	documentID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Capability{}, ErrCapabilityInvalid
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Capability{}, ErrCapabilityInvalid
	}

	return Capability{DocumentID: documentID, OwnerID: ownerID}, nil
}

// sign computes the lowercase hex HMAC-SHA256 digest of payload.
func (c *CapabilityCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
