package access

import (
	"testing"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func principalWithRole(role entity.Role) entity.Principal {
	return entity.Principal{
		ID:    uuid.New(),
		Email: "someone@example.com",
		Role:  role,
	}
}

func TestAllow_AnyAuthenticated(t *testing.T) {
	assert.True(t, Allow(principalWithRole(entity.RoleAdmin), AnyAuthenticated))
	assert.True(t, Allow(principalWithRole(entity.RoleStoreOwner), AnyAuthenticated))
	assert.True(t, Allow(principalWithRole(entity.RoleUser), AnyAuthenticated))
}

func TestAllow_AdminOnly(t *testing.T) {
	assert.True(t, Allow(principalWithRole(entity.RoleAdmin), AdminOnly))

	// Role matching is exact, no hierarchy.
	assert.False(t, Allow(principalWithRole(entity.RoleStoreOwner), AdminOnly))
	assert.False(t, Allow(principalWithRole(entity.RoleUser), AdminOnly))
}

func TestAllow_StoreOwnerOnly(t *testing.T) {
	assert.True(t, Allow(principalWithRole(entity.RoleStoreOwner), StoreOwnerOnly))

	// Admins do not implicitly pass owner-scoped routes.
	assert.False(t, Allow(principalWithRole(entity.RoleAdmin), StoreOwnerOnly))
	assert.False(t, Allow(principalWithRole(entity.RoleUser), StoreOwnerOnly))
}

func TestAllow_UnknownRole(t *testing.T) {
	// Role validity is enforced when claims decode; the policy only
	// compares roles, so an unknown role fails every role-scoped check.
	assert.False(t, Allow(principalWithRole(entity.Role("ghost")), AdminOnly))
	assert.False(t, Allow(principalWithRole(entity.Role("")), StoreOwnerOnly))
}

func TestAllow_UnknownRequirement(t *testing.T) {
	assert.False(t, Allow(principalWithRole(entity.RoleAdmin), Requirement(99)))
}

func TestRequirementString(t *testing.T) {
	assert.Equal(t, "any-authenticated", AnyAuthenticated.String())
	assert.Equal(t, "role=admin", AdminOnly.String())
	assert.Equal(t, "role=store_owner", StoreOwnerOnly.String())
	assert.Equal(t, "unknown", Requirement(99).String())
}
