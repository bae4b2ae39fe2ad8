// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package sec

// Identity is the resolved caller snapshot carried through the request
// context after authentication.
//
// # Why a platform type?
//
// Middleware and transport helpers need the resolved caller without
// importing the identity domain package, which would create an import cycle.
// The full user entity stays in the domain; this is the narrow view the
// HTTP layer works with.
type Identity struct {
	// UserID is the internal numeric account ID (document owner ID).
	UserID int64

	// DisplayName is the registered name, used for personalization.
	DisplayName string

	// Selector is the opaque lookup key the session token was bound to.
	Selector string
}
