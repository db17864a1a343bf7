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
)

// storeRepository implements the store side of the relational store using GORM.
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

// FindByID retrieves a single store by its unique ID.
func (repo *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	return toStoreDomain(&storeM), nil
}

// FindByOwner retrieves the store owned by the given user, if any.
func (repo *storeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by owner")
	}

	return toStoreDomain(&storeM), nil
}

// Create persists a new store entity to the database.
func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	if err := repo.db.WithContext(ctx).Create(storeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrStoreCreationFailed.WrapMessage("owner does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrStoreCreationFailed.WrapMessage("missing required store information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create store")
	}

	store.ID = storeM.ID
	store.CreatedAt = storeM.CreatedAt
	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// Count returns the total number of stores.
func (repo *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.StoreModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count stores")
	}

	return count, nil
}

// storeRatingRow is the scan target for store queries joined with
// aggregate rating columns.
type storeRatingRow struct {
	model.StoreModel
	Average     float64
	UserRating  *int
	RatingCount int64
}

// Query returns all stores matching the filters, each left-joined with
// its average rating so that unrated stores are still included.
func (repo *storeRepository) Query(ctx context.Context, filters repository.StoreFilters) ([]entity.StoreWithRating, error) {
	var rows []storeRatingRow
	err := repo.db.WithContext(ctx).
		Model(&model.StoreModel{}).
		Select("stores.*, COALESCE(AVG(ratings.rating), 0) AS average").
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Where("stores.name ILIKE ? AND stores.email ILIKE ? AND stores.address ILIKE ?",
			contains(filters.Name), contains(filters.Email), contains(filters.Address)).
		Group("stores.id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query stores")
	}

	stores := make([]entity.StoreWithRating, 0, len(rows))
	for i := range rows {
		stores = append(stores, entity.StoreWithRating{
			Store:         *toStoreDomain(&rows[i].StoreModel),
			AverageRating: entity.RoundRating(rows[i].Average),
		})
	}

	return stores, nil
}

// ListWithUserRatings returns every store matching name OR address, with
// overall average, rating count, and the requesting user's own rating.
// The OR combination mirrors the public store listing semantics; empty
// filters match everything.
func (repo *storeRepository) ListWithUserRatings(ctx context.Context, userID uuid.UUID, name, address string) ([]entity.StoreSummary, error) {
	var rows []storeRatingRow
	err := repo.db.WithContext(ctx).
		Model(&model.StoreModel{}).
		Select("stores.*, "+
			"COALESCE(AVG(ratings.rating), 0) AS average, "+
			"MAX(CASE WHEN ratings.user_id = ? THEN ratings.rating END) AS user_rating, "+
			"COUNT(ratings.rating) AS rating_count", userID).
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Where("stores.name ILIKE ? OR stores.address ILIKE ?", contains(name), contains(address)).
		Group("stores.id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores with ratings")
	}

	summaries := make([]entity.StoreSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, entity.StoreSummary{
			StoreID:       rows[i].ID,
			Name:          rows[i].Name,
			Address:       rows[i].Address,
			OverallRating: entity.RoundRating(rows[i].Average),
			RatingCount:   rows[i].RatingCount,
			UserRating:    rows[i].UserRating,
		})
	}

	return summaries, nil
}

// --- Mapper Functions ---

func toStoreDomain(data *model.StoreModel) *entity.Store {
	if data == nil {
		return nil
	}

	return &entity.Store{
		ID:        data.ID,
		Name:      data.Name,
		Email:     data.Email,
		Address:   data.Address,
		OwnerID:   data.OwnerID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromStoreDomain(data *entity.Store) *model.StoreModel {
	if data == nil {
		return nil
	}

	return &model.StoreModel{
		ID:      data.ID,
		Name:    data.Name,
		Email:   data.Email,
		Address: data.Address,
		OwnerID: data.OwnerID,
	}
}
