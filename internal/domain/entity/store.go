package entity

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a ratable store. Stores are created only by admin
// action and reference their owning user.
type Store struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreWithRating is a store row joined with its average rating at read
// time. Average is 0 when the store has no ratings.
type StoreWithRating struct {
	Store
	AverageRating float64 `json:"rating"`
}
