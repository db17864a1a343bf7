package impl

import (
	"context"
	"log/slog"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/domain/service"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface: the dashboard
// aggregator plus admin-only creation operations.
type adminService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	hasher     service.PasswordHasher
	logger     *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	StoreRepo  repository.StoreRepository
	RatingRepo repository.RatingRepository
	Hasher     service.PasswordHasher
	Logger     *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		storeRepo:  params.StoreRepo,
		ratingRepo: params.RatingRepo,
		hasher:     params.Hasher,
		logger:     params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GlobalStats returns the platform-wide counts.
func (srv *adminService) GlobalStats(ctx context.Context) (*entity.GlobalStats, error) {
	users, err := srv.userRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}

	stores, err := srv.storeRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count stores")
	}

	ratings, err := srv.ratingRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count ratings")
	}

	return &entity.GlobalStats{
		TotalUsers:   users,
		TotalStores:  stores,
		TotalRatings: ratings,
	}, nil
}

// QueryUsers returns users matching the filters.
func (srv *adminService) QueryUsers(ctx context.Context, filters repository.UserFilters) ([]entity.User, error) {
	users, err := srv.userRepo.Query(ctx, filters)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}

	return users, nil
}

// QueryStores returns stores matching the filters, each with its
// average rating.
func (srv *adminService) QueryStores(ctx context.Context, filters repository.StoreFilters) ([]entity.StoreWithRating, error) {
	stores, err := srv.storeRepo.Query(ctx, filters)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query stores")
	}

	return stores, nil
}

// UserDetail returns one user and, for store owners, the average rating
// of the stores they own. The owner lookup goes through the owner
// reference so that a stale token binding can never skew the result.
func (srv *adminService) UserDetail(ctx context.Context, id uuid.UUID) (*entity.UserDetail, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("detail for unknown user")
		}

		return nil, errors.Wrap(err, "failed to load user detail")
	}

	detail := &entity.UserDetail{User: *user}

	if user.Role == entity.RoleStoreOwner {
		avg, err := srv.ratingRepo.AverageByOwner(ctx, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to average owned store ratings")
		}

		rounded := entity.RoundRating(avg)
		detail.OwnedStoreRating = &rounded
	}

	return detail, nil
}

// CreateUser creates a user with an arbitrary role on behalf of an admin.
func (srv *adminService) CreateUser(ctx context.Context, input *usecase.CreateUserInput) (*entity.User, error) {
	role := entity.Role(input.Role)
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role: " + input.Role)
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	newUser := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
		Address:      input.Address,
		Role:         role,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Admin user creation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Admin created user", slog.Any("userID", newUser.ID), slog.Any("role", role))

	return newUser, nil
}

// CreateStore creates a store for an existing store_owner. Owner check
// and insert run inside one transaction so the ownership reference can
// never dangle.
func (srv *adminService) CreateStore(ctx context.Context, input *usecase.CreateStoreInput) (*entity.Store, error) {
	newStore := &entity.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: input.OwnerID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		owner, err := repoFactory.UserRepo().FindByID(ctx, input.OwnerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrValidationFailed.WithDetails("owner does not exist")
			}

			return errors.Wrap(err, "failed to load store owner")
		}

		if owner.Role != entity.RoleStoreOwner {
			return domainerrors.ErrValidationFailed.WithDetails("owner must have the store_owner role")
		}

		return repoFactory.StoreRepo().Create(ctx, newStore)
	})
	if err != nil {
		srv.log(ctx).Warn("Admin store creation failed", slog.String("name", input.Name), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Admin created store", slog.Any("storeID", newStore.ID), slog.Any("ownerID", newStore.OwnerID))

	return newStore, nil
}
