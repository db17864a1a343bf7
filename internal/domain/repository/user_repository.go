// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserFilters narrows an admin user query. Every field is a substring,
// case-insensitive match; an empty field matches everything, so an
// omitted filter is never more restrictive than a provided one.
type UserFilters struct {
	Name    string
	Email   string
	Address string
	Role    string
}

// UserRepository is the credential store contract: it owns user records,
// password hashes, and roles.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// UpdatePasswordHash replaces the stored password hash for a user.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)

	// Query returns all users matching the filters.
	Query(ctx context.Context, filters UserFilters) ([]entity.User, error)
}
