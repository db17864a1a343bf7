// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"time"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// Claims is the identity claim set carried inside a token: who the user
// is, which role they hold, and (for store owners) which store they are
// bound to. It is the only input the identity resolver needs to build a
// Principal.
type Claims struct {
	UserID  uuid.UUID
	Email   string
	Role    entity.Role
	StoreID *uuid.UUID
}

// Principal converts the verified claims into the per-request identity.
func (c *Claims) Principal() entity.Principal {
	return entity.Principal{
		ID:      c.UserID,
		Email:   c.Email,
		Role:    c.Role,
		StoreID: c.StoreID,
	}
}

// TokenService is the token codec: it signs identity claims into a
// compact token and verifies tokens back into claims. Stateless, no
// side effects. Every issued token carries an expiry.
type TokenService interface {
	// Issue signs a token for the user. storeID is nil unless the user
	// owns a store.
	Issue(user *entity.User, storeID *uuid.UUID) (string, error)

	// Verify validates signature, structure, and expiry, returning the
	// decoded claims or an error for any malformed, forged, or expired
	// token.
	Verify(tokenString string) (*Claims, error)

	// TokenDuration returns the configured token lifetime.
	TokenDuration() time.Duration
}
