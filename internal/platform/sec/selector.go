// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

/*
Package sec provides the cryptographic primitives and token management for DocSafe.

# Architecture

This package isolates security-sensitive code (selector derivation, credential
hashing, session and capability token signing) from the domain logic. It acts
as an Infrastructure service injected into the Application layer via narrow
interfaces.

Each component is keyed independently: the selector deriver, the session
codec, and the capability codec must be constructed with three distinct
secrets. Key separation is a hard requirement of the design.
*/
package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// # Selector Derivation

// SelectorDeriver maps a sensitive identifier to an opaque, deterministic
// lookup key using a keyed one-way function.
//
// # Properties
//
//   - Deterministic: the same identifier always yields the same selector.
//   - Non-reversible: without the server-held key, inverting the digest is
//     computationally infeasible even over the small national-ID space.
//   - Lookup-friendly: the output is a fixed-width lowercase hex string
//     suitable as a unique database column.
//
// The deriver performs no format validation; its input is treated as an
// opaque byte string. Callers validate the 13-digit shape at the edge.
type SelectorDeriver struct {
	key []byte
}

// NewSelectorDeriver constructs a deriver from the selector secret.
// An empty key is a programmer error and is rejected at construction time.
func NewSelectorDeriver(secret string) (*SelectorDeriver, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: selector secret must not be empty")
	}
	return &SelectorDeriver{key: []byte(secret)}, nil
}

// Derive computes the selector for the given identifier.
//
// The output is the lowercase hex encoding of HMAC-SHA256(key, identifier):
// 64 characters, always. Derive has no side effects and no failure mode.
func (d *SelectorDeriver) Derive(identifier string) string {
	mac := hmac.New(sha256.New, d.key)
	mac.Write([]byte(identifier))
	return hex.EncodeToString(mac.Sum(nil))
}
