package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRatingNotFound is returned when no rating exists for a (user, store) pair.
var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository covers the rating side of the relational store. The
// (user_id, store_id) uniqueness invariant lives here: Upsert must be a
// single atomic conditional write, so that concurrent submissions for
// the same pair can never produce a second row, only a replaced value.
type RatingRepository interface {
	// Find retrieves the rating a user gave a store, or ErrRatingNotFound.
	Find(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error)

	// Upsert inserts the rating or, when a row for (userID, storeID)
	// already exists, replaces its value in place. Atomic with respect
	// to concurrent upserts for the same pair.
	Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) error

	// Count returns the total number of ratings across all stores.
	Count(ctx context.Context) (int64, error)

	// Average returns the mean rating of a store, unrounded, and the
	// number of ratings. Average is 0 when count is 0.
	Average(ctx context.Context, storeID uuid.UUID) (avg float64, count int64, err error)

	// AverageByOwner returns the mean rating across all stores owned by
	// the given user, 0 when none of them has ratings.
	AverageByOwner(ctx context.Context, ownerID uuid.UUID) (float64, error)

	// ListForStore returns all ratings for a store joined with rater
	// identity, ordered by rating value descending; ties keep stable
	// insertion order.
	ListForStore(ctx context.Context, storeID uuid.UUID) ([]entity.RatedBy, error)
}
