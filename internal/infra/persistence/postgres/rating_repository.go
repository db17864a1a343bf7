package postgres

import (
	"context"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingRepository implements the rating side of the relational store
// using GORM. The uniqueness invariant on (user_id, store_id) is carried
// by the composite index on the ratings table; Upsert conflicts on it.
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository is the constructor for ratingRepository.
func NewRatingRepository(db *gorm.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

// Find retrieves the rating a user gave a store.
func (repo *ratingRepository) Find(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	var ratingM model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&ratingM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRatingNotFound
		}

		return nil, errors.Wrap(err, "failed to find rating")
	}

	return &entity.Rating{
		UserID:    ratingM.UserID,
		StoreID:   ratingM.StoreID,
		Value:     ratingM.Value,
		CreatedAt: ratingM.CreatedAt,
		UpdatedAt: ratingM.UpdatedAt,
	}, nil
}

// Upsert inserts or replaces the rating in a single atomic statement.
// ON CONFLICT on the (user_id, store_id) index means two concurrent
// submissions for the same pair serialize inside the database: one
// inserts, the other updates, and exactly one row survives holding the
// last serialized value. The check-then-act race of a separate
// find-then-write sequence cannot occur here.
func (repo *ratingRepository) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) error {
	ratingM := model.RatingModel{
		UserID:  userID,
		StoreID: storeID,
		Value:   value,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(&ratingM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrStoreNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert rating")
	}

	return nil
}

// Count returns the total number of ratings across all stores.
func (repo *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.RatingModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count ratings")
	}

	return count, nil
}

type averageRow struct {
	Average float64
	Total   int64
}

// Average returns the unrounded mean rating and count for a store.
func (repo *ratingRepository) Average(ctx context.Context, storeID uuid.UUID) (float64, int64, error) {
	var row averageRow
	err := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("store_id = ?", storeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to average ratings")
	}

	return row.Average, row.Total, nil
}

// AverageByOwner returns the mean rating across all stores owned by the
// given user, looked up by owner reference.
func (repo *ratingRepository) AverageByOwner(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	var row averageRow
	err := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Select("COALESCE(AVG(ratings.rating), 0) AS average, COUNT(*) AS total").
		Joins("JOIN stores ON stores.id = ratings.store_id").
		Where("stores.owner_id = ?", ownerID).
		Scan(&row).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to average ratings by owner")
	}

	return row.Average, nil
}

// ListForStore returns all ratings for a store joined with rater
// identity, ordered by rating value descending. Ties keep insertion
// order via the secondary created_at sort.
func (repo *ratingRepository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]entity.RatedBy, error) {
	var rated []entity.RatedBy
	err := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Select("users.name AS user_name, users.email AS email, users.address AS address, ratings.rating AS value").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ?", storeID).
		Order("ratings.rating DESC, ratings.created_at ASC").
		Scan(&rated).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings for store")
	}

	return rated, nil
}
