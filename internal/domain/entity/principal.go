package entity

import "github.com/google/uuid"

// Principal is the authenticated identity derived from a verified token.
// It is built once per request from decoded claims, is immutable for the
// request lifetime, and is never persisted. No database lookup refreshes
// it, so role and store binding can lag the credential store until the
// token is reissued.
type Principal struct {
	ID      uuid.UUID
	Email   string
	Role    Role
	StoreID *uuid.UUID // set only when Role is RoleStoreOwner and a store is bound
}
