// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package identity

import (
	"context"
)

// UserRepository defines the data access contract for accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation for DocSafe is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindBySelector returns the account bound to the given selector.
	//
	// Returns [apperr.NotFound] if no account carries this selector.
	FindBySelector(ctx context.Context, selector string) (*User, error)

	// Create persists a brand-new account and populates user.ID.
	//
	// The selector column carries a unique index; a concurrent duplicate
	// registration loses the insert race and surfaces as [apperr.Conflict].
	Create(ctx context.Context, user *User) error
}
