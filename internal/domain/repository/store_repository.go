package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrStoreNotFound is a domain-specific error returned when a store is not found.
var ErrStoreNotFound = errors.New("store not found")

// StoreFilters narrows an admin store query; same wildcard semantics as
// UserFilters.
type StoreFilters struct {
	Name    string
	Email   string
	Address string
}

// StoreRepository covers the store side of the relational store.
type StoreRepository interface {
	// FindByID retrieves a single store by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// FindByOwner retrieves the store owned by the given user, if any.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error)

	// Create persists a new store entity to the storage.
	Create(ctx context.Context, store *entity.Store) error

	// Count returns the total number of stores.
	Count(ctx context.Context) (int64, error)

	// Query returns all stores matching the filters, each left-joined
	// with its average rating (0 when the store has no ratings).
	Query(ctx context.Context, filters StoreFilters) ([]entity.StoreWithRating, error)

	// ListWithUserRatings returns every store whose name OR address
	// matches the given substrings (empty matches all), each with its
	// overall average, rating count, and the requesting user's own
	// rating when present.
	ListWithUserRatings(ctx context.Context, userID uuid.UUID, name, address string) ([]entity.StoreSummary, error)
}
