// Package access holds the route-level access policy. Every protected
// route declares one Requirement, and the single Allow function decides
// uniformly before any handler body runs.
package access

import "ratehub/internal/domain/entity"

// Requirement is the access level a route class demands.
type Requirement int

const (
	// AnyAuthenticated admits every principal that carries a valid token.
	AnyAuthenticated Requirement = iota
	// AdminOnly admits principals whose role is exactly admin.
	AdminOnly
	// StoreOwnerOnly admits principals whose role is exactly store_owner.
	StoreOwnerOnly
)

// String returns a readable name for logging and error details.
func (r Requirement) String() string {
	switch r {
	case AnyAuthenticated:
		return "any-authenticated"
	case AdminOnly:
		return "role=admin"
	case StoreOwnerOnly:
		return "role=store_owner"
	default:
		return "unknown"
	}
}

// Allow reports whether the principal satisfies the requirement.
// Role matches are exact: admin does not imply store_owner and vice
// versa. Callers must resolve the principal before evaluating the
// policy; absence of a principal is an authentication failure, not a
// policy decision.
func Allow(p entity.Principal, req Requirement) bool {
	switch req {
	case AnyAuthenticated:
		return true
	case AdminOnly:
		return p.Role == entity.RoleAdmin
	case StoreOwnerOnly:
		return p.Role == entity.RoleStoreOwner
	default:
		return false
	}
}
