// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity entity, owned by the credential store.
// PasswordHash is never serialized; it stays inside the usecase and
// persistence layers.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserDetail is the admin read model for a single user. For store owners
// it additionally carries the average rating over the stores they own,
// looked up by owner reference rather than any token claim.
type UserDetail struct {
	User
	OwnedStoreRating *float64 `json:"rating,omitempty"`
}
