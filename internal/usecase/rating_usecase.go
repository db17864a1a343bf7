package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitRatingInput carries the rating value from the request body.
// Range validation happens in the service so that out-of-range values
// surface as the rating-specific error rather than a generic binding one.
type SubmitRatingInput struct {
	Value int `json:"rating"`
}

// StoreListFilters narrows the authenticated store listing. Name and
// address combine with OR; empty values match everything.
type StoreListFilters struct {
	Name    string
	Address string
}

// RatingUsecase is the rating ledger: it enforces the
// one-rating-per-user-per-store invariant and serves the aggregate
// views derived from ratings.
type RatingUsecase interface {
	// SubmitRating validates the value and upserts the caller's rating
	// for the store. Idempotent per (user, store): any sequence of
	// submissions leaves exactly one row holding the last accepted value.
	SubmitRating(ctx context.Context, userID, storeID uuid.UUID, value int) error

	// ListStores returns every matching store with overall average,
	// rating count, and the caller's own rating when present.
	ListStores(ctx context.Context, userID uuid.UUID, filters StoreListFilters) ([]entity.StoreSummary, error)

	// StoreSummary returns one store's aggregate view for the caller.
	StoreSummary(ctx context.Context, storeID, requestingUserID uuid.UUID) (*entity.StoreSummary, error)

	// OwnerDashboard composes the store owner view: all ratings with
	// rater identity, ordered by value descending, plus the average.
	// A nil or stale store binding yields a not-found error.
	OwnerDashboard(ctx context.Context, storeID *uuid.UUID) (*entity.OwnerDashboard, error)
}
