package impl

import (
	"context"
	"log/slog"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ratingService implements the RatingUsecase interface: the rating
// ledger and its read-side aggregates.
type ratingService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	logger     *slog.Logger
}

// RatingServiceParams holds dependencies for ratingService, injected by Fx.
type RatingServiceParams struct {
	fx.In

	StoreRepo  repository.StoreRepository
	RatingRepo repository.RatingRepository
	Logger     *slog.Logger
}

// NewRatingService is the constructor for ratingService.
func NewRatingService(params RatingServiceParams) usecase.RatingUsecase {
	return &ratingService{
		storeRepo:  params.StoreRepo,
		ratingRepo: params.RatingRepo,
		logger:     params.Logger,
	}
}

func (srv *ratingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitRating validates and records one rating. The write itself is a
// single atomic upsert in the relational store; the ledger never runs a
// separate existence check, so no interleaving of concurrent
// submissions for the same (user, store) pair can create a second row.
func (srv *ratingService) SubmitRating(ctx context.Context, userID, storeID uuid.UUID, value int) error {
	if !entity.IsValidRatingValue(value) {
		return domainerrors.ErrInvalidRating.WrapMessage("rating value out of range")
	}

	// No existence pre-check: the store reference is enforced by the
	// foreign key, and the upsert surfaces its violation as not-found.
	if err := srv.ratingRepo.Upsert(ctx, userID, storeID, value); err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return domainerrors.ErrStoreNotFound.WrapMessage("rating for unknown store")
		}

		return errors.Wrap(err, "failed to upsert rating")
	}

	srv.log(ctx).Info("Rating saved",
		slog.Any("userID", userID),
		slog.Any("storeID", storeID),
		slog.Int("value", value),
	)

	return nil
}

// ListStores returns the authenticated store listing with aggregates.
func (srv *ratingService) ListStores(ctx context.Context, userID uuid.UUID, filters usecase.StoreListFilters) ([]entity.StoreSummary, error) {
	summaries, err := srv.storeRepo.ListWithUserRatings(ctx, userID, filters.Name, filters.Address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return summaries, nil
}

// StoreSummary returns one store's aggregate view: average rounded to
// one decimal (0 when unrated), count, and the caller's own rating.
func (srv *ratingService) StoreSummary(ctx context.Context, storeID, requestingUserID uuid.UUID) (*entity.StoreSummary, error) {
	store, err := srv.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, domainerrors.ErrStoreNotFound.WrapMessage("summary for unknown store")
		}

		return nil, errors.Wrap(err, "failed to load store for summary")
	}

	avg, count, err := srv.ratingRepo.Average(ctx, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to average store ratings")
	}

	summary := &entity.StoreSummary{
		StoreID:       store.ID,
		Name:          store.Name,
		Address:       store.Address,
		OverallRating: entity.RoundRating(avg),
		RatingCount:   count,
	}

	own, err := srv.ratingRepo.Find(ctx, requestingUserID, storeID)
	if err != nil {
		if !errors.Is(err, repository.ErrRatingNotFound) {
			return nil, errors.Wrap(err, "failed to load own rating")
		}
	} else {
		summary.UserRating = &own.Value
	}

	return summary, nil
}

// OwnerDashboard composes the store owner view. A nil store binding on
// the principal (store_owner without a store, or a stale token) cannot
// resolve to a store and yields not-found.
func (srv *ratingService) OwnerDashboard(ctx context.Context, storeID *uuid.UUID) (*entity.OwnerDashboard, error) {
	if storeID == nil {
		return nil, domainerrors.ErrStoreNotFound.WrapMessage("principal has no store binding")
	}

	store, err := srv.storeRepo.FindByID(ctx, *storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, domainerrors.ErrStoreNotFound.WrapMessage("dashboard for unknown store")
		}

		return nil, errors.Wrap(err, "failed to load store for dashboard")
	}

	ratings, err := srv.ratingRepo.ListForStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list store ratings")
	}

	avg, _, err := srv.ratingRepo.Average(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to average store ratings")
	}

	return &entity.OwnerDashboard{
		StoreName:     store.Name,
		AverageRating: entity.RoundRating(avg),
		Ratings:       ratings,
	}, nil
}
