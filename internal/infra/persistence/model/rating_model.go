package model

import (
	"time"

	"github.com/google/uuid"
)

// RatingModel mirrors the 'ratings' table. The composite unique index on
// (user_id, store_id) is what makes the one-rating-per-pair invariant
// hold under concurrent writes; the repository upsert conflicts on it.
type RatingModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_ratings_user_store"`
	StoreID   uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_ratings_user_store"`
	Value     int       `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User  *UserModel  `gorm:"foreignKey:UserID"`
	Store *StoreModel `gorm:"foreignKey:StoreID"`
}

// TableName explicitly sets the table name for GORM.
func (RatingModel) TableName() string {
	return "ratings"
}
