// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Package identity defines the account entity and the use cases that bind a
// person to a session token.
//
// # Architecture
//
// The entity in this file represents the "Truth" of the system. It has no
// dependencies on outer layers (like databases, APIs, or libraries).
//
// # Privacy
//
// The national ID number never appears on this entity. The account row holds
// only the derived Selector (a keyed HMAC of the identifier) and the
// CredentialHash (a memory-hard hash of the identifier). Neither value can be
// reversed to the raw number without the corresponding secret or a successful
// preimage attack.
package identity

import (
	"time"
)

// User represents a registered DocSafe account.
//
// # Rules
//   - Selector is unique; the database index is the final arbiter.
//   - CredentialHash is produced exclusively by [sec.HashIdentifier].
//   - Name is display-only and carries no authorization weight.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Selector       string    `json:"-"` // Keyed lookup handle. Omitted from JSON.
	CredentialHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt      time.Time `json:"created_at"`
}
