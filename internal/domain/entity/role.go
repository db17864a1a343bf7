// Package entity contains the core business objects of the project.
package entity

// Role represents the access level a user holds in the platform.
type Role string

const (
	// RoleAdmin indicates a platform administrator.
	RoleAdmin Role = "admin"
	// RoleStoreOwner indicates a user who owns a store and may view its dashboard.
	RoleStoreOwner Role = "store_owner"
	// RoleUser indicates a regular user who rates stores.
	RoleUser Role = "user"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStoreOwner, RoleUser:
		return true
	default:
		return false
	}
}
