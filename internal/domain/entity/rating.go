package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Rating value bounds, inclusive.
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is one user's rating of one store. The (UserID, StoreID) pair
// is unique: at most one rating row exists per pair at any time, and a
// resubmission replaces the value in place.
type Rating struct {
	UserID    uuid.UUID `json:"user_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Value     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidRatingValue reports whether value lies within [MinRatingValue, MaxRatingValue].
func IsValidRatingValue(value int) bool {
	return value >= MinRatingValue && value <= MaxRatingValue
}

// RoundRating rounds an average to one decimal place for presentation.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// StoreSummary is the per-store aggregate view returned to a rating
// user: overall average (0 when no ratings), rating count, and the
// requesting user's own rating when present.
type StoreSummary struct {
	StoreID       uuid.UUID `json:"store_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	OverallRating float64   `json:"overall_rating"`
	RatingCount   int64     `json:"rating_count"`
	UserRating    *int      `json:"user_rating,omitempty"`
}

// RatedBy is a single rating joined with the rater's identity, as shown
// on the store owner's dashboard.
type RatedBy struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Value    int    `json:"rating"`
}

// OwnerDashboard aggregates everything a store owner sees: the store
// name, its average rating (0 when none), and all ratings ordered by
// value descending.
type OwnerDashboard struct {
	StoreName     string    `json:"store_name"`
	AverageRating float64   `json:"average_rating"`
	Ratings       []RatedBy `json:"ratings"`
}

// GlobalStats are the admin dashboard counts.
type GlobalStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}
