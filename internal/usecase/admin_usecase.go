package usecase

import (
	"context"

	"ratehub/internal/domain/entity"
	"ratehub/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateUserInput defines the data an admin supplies to create a user
// with an arbitrary role.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin store_owner user"`
}

// CreateStoreInput defines the data an admin supplies to create a store.
type CreateStoreInput struct {
	Name    string    `json:"name" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
	Address string    `json:"address" validate:"required"`
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
}

// AdminUsecase is the dashboard aggregator plus the admin-only write
// operations. Every method assumes the access policy already admitted
// an admin principal.
type AdminUsecase interface {
	// GlobalStats returns the platform-wide counts.
	GlobalStats(ctx context.Context) (*entity.GlobalStats, error)

	// QueryUsers returns users matching the filters (AND semantics,
	// omitted field matches everything).
	QueryUsers(ctx context.Context, filters repository.UserFilters) ([]entity.User, error)

	// QueryStores returns stores matching the filters, each with its
	// average rating.
	QueryStores(ctx context.Context, filters repository.StoreFilters) ([]entity.StoreWithRating, error)

	// UserDetail returns one user; for store owners it adds the average
	// rating of the stores they own, resolved by owner reference.
	UserDetail(ctx context.Context, id uuid.UUID) (*entity.UserDetail, error)

	// CreateUser creates a user with the given role.
	CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error)

	// CreateStore creates a store bound to an existing store_owner user.
	CreateStore(ctx context.Context, input *CreateStoreInput) (*entity.Store, error)
}
