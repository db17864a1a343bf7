package impl

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// requireAppError asserts the error chain contains an AppError with the
// given business code.
func requireAppError(t *testing.T, err error, errorCode string, httpCode int) {
	t.Helper()

	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, stderrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, errorCode, appErr.ErrorCode())
	assert.Equal(t, httpCode, appErr.HTTPCode())
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// --- in-memory user repository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()

	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Query(ctx context.Context, filters repository.UserFilters) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.User
	for _, user := range r.users {
		if filters.Name != "" && !containsFold(user.Name, filters.Name) {
			continue
		}
		if filters.Email != "" && !containsFold(user.Email, filters.Email) {
			continue
		}
		if filters.Address != "" && !containsFold(user.Address, filters.Address) {
			continue
		}
		if filters.Role != "" && !containsFold(user.Role.String(), filters.Role) {
			continue
		}
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

// --- in-memory store repository ---

type fakeStoreRepo struct {
	mu      sync.Mutex
	stores  map[uuid.UUID]*entity.Store
	ratings *fakeRatingRepo
}

func newFakeStoreRepo(ratings *fakeRatingRepo) *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uuid.UUID]*entity.Store), ratings: ratings}
}

func (r *fakeStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	copied := *store

	return &copied, nil
}

func (r *fakeStoreRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, store := range r.stores {
		if store.OwnerID == ownerID {
			copied := *store

			return &copied, nil
		}
	}

	return nil, repository.ErrStoreNotFound
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	store.CreatedAt = time.Now()
	store.UpdatedAt = store.CreatedAt

	copied := *store
	r.stores[store.ID] = &copied

	return nil
}

func (r *fakeStoreRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.stores)), nil
}

func (r *fakeStoreRepo) Query(ctx context.Context, filters repository.StoreFilters) ([]entity.StoreWithRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.StoreWithRating
	for _, store := range r.stores {
		if filters.Name != "" && !containsFold(store.Name, filters.Name) {
			continue
		}
		if filters.Email != "" && !containsFold(store.Email, filters.Email) {
			continue
		}
		if filters.Address != "" && !containsFold(store.Address, filters.Address) {
			continue
		}
		avg, _ := r.ratings.average(store.ID)
		result = append(result, entity.StoreWithRating{Store: *store, AverageRating: avg})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

func (r *fakeStoreRepo) ListWithUserRatings(ctx context.Context, userID uuid.UUID, name, address string) ([]entity.StoreSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.StoreSummary
	for _, store := range r.stores {
		// An omitted filter is a wildcard inside the OR, like the
		// ILIKE '%%' pattern the SQL builds from an empty value.
		if !containsFold(store.Name, name) && !containsFold(store.Address, address) {
			continue
		}

		avg, count := r.ratings.average(store.ID)
		summary := entity.StoreSummary{
			StoreID:       store.ID,
			Name:          store.Name,
			Address:       store.Address,
			OverallRating: entity.RoundRating(avg),
			RatingCount:   count,
		}
		if value, ok := r.ratings.valueFor(userID, store.ID); ok {
			summary.UserRating = &value
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

// --- in-memory rating repository ---

type ratingKey struct {
	userID  uuid.UUID
	storeID uuid.UUID
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[ratingKey]*entity.Rating
	users   *fakeUserRepo
	stores  *fakeStoreRepo
}

func newFakeRatingRepo(users *fakeUserRepo) *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[ratingKey]*entity.Rating), users: users}
}

func (r *fakeRatingRepo) Find(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rating, ok := r.ratings[ratingKey{userID: userID, storeID: storeID}]
	if !ok {
		return nil, repository.ErrRatingNotFound
	}
	copied := *rating

	return &copied, nil
}

func (r *fakeRatingRepo) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) error {
	// The store reference check stands in for the foreign key the real
	// repository maps to ErrStoreNotFound.
	if r.stores != nil {
		if _, err := r.stores.FindByID(ctx, storeID); err != nil {
			return repository.ErrStoreNotFound
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := ratingKey{userID: userID, storeID: storeID}
	now := time.Now()
	if existing, ok := r.ratings[key]; ok {
		existing.Value = value
		existing.UpdatedAt = now

		return nil
	}

	r.ratings[key] = &entity.Rating{
		UserID:    userID,
		StoreID:   storeID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return nil
}

func (r *fakeRatingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.ratings)), nil
}

func (r *fakeRatingRepo) Average(ctx context.Context, storeID uuid.UUID) (float64, int64, error) {
	avg, count := r.average(storeID)

	return avg, count, nil
}

func (r *fakeRatingRepo) average(storeID uuid.UUID) (float64, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum, count int64
	for key, rating := range r.ratings {
		if key.storeID == storeID {
			sum += int64(rating.Value)
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}

	return float64(sum) / float64(count), count
}

func (r *fakeRatingRepo) valueFor(userID, storeID uuid.UUID) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rating, ok := r.ratings[ratingKey{userID: userID, storeID: storeID}]
	if !ok {
		return 0, false
	}

	return rating.Value, true
}

func (r *fakeRatingRepo) AverageByOwner(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	if r.stores == nil {
		return 0, nil
	}

	r.stores.mu.Lock()
	var owned []uuid.UUID
	for _, store := range r.stores.stores {
		if store.OwnerID == ownerID {
			owned = append(owned, store.ID)
		}
	}
	r.stores.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	var sum, count int64
	for key, rating := range r.ratings {
		for _, storeID := range owned {
			if key.storeID == storeID {
				sum += int64(rating.Value)
				count++
			}
		}
	}
	if count == 0 {
		return 0, nil
	}

	return float64(sum) / float64(count), nil
}

func (r *fakeRatingRepo) ListForStore(ctx context.Context, storeID uuid.UUID) ([]entity.RatedBy, error) {
	r.mu.Lock()
	entries := make([]*entity.Rating, 0)
	for key, rating := range r.ratings {
		if key.storeID == storeID {
			copied := *rating
			entries = append(entries, &copied)
		}
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}

		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	result := make([]entity.RatedBy, 0, len(entries))
	for _, rating := range entries {
		rated := entity.RatedBy{Value: rating.Value}
		if r.users != nil {
			if user, err := r.users.FindByID(ctx, rating.UserID); err == nil {
				rated.UserName = user.Name
				rated.Email = user.Email
				rated.Address = user.Address
			}
		}
		result = append(result, rated)
	}

	return result, nil
}

// --- transaction manager ---

// fakeTxManager runs the callback directly against the shared fakes;
// rollback semantics are not modeled.
type fakeTxManager struct {
	factory *fakeRepoFactory
}

type fakeRepoFactory struct {
	users   *fakeUserRepo
	stores  *fakeStoreRepo
	ratings *fakeRatingRepo
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository     { return f.users }
func (f *fakeRepoFactory) StoreRepo() repository.StoreRepository   { return f.stores }
func (f *fakeRepoFactory) RatingRepo() repository.RatingRepository { return f.ratings }

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// --- stateless service fakes ---

// fakeHasher is a transparent stand-in so tests can assert on stored
// hashes without paying for bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Check(password, hash string) bool { return "hashed:"+password == hash }

type fakeTokenService struct {
	issued []issuedToken
}

type issuedToken struct {
	userID  uuid.UUID
	storeID *uuid.UUID
}

func (s *fakeTokenService) Issue(user *entity.User, storeID *uuid.UUID) (string, error) {
	s.issued = append(s.issued, issuedToken{userID: user.ID, storeID: storeID})

	return "token-for-" + user.Email, nil
}

func (s *fakeTokenService) Verify(tokenString string) (*service.Claims, error) {
	return nil, stderrors.New("not implemented")
}

func (s *fakeTokenService) TokenDuration() time.Duration { return time.Hour }

// --- fixture wiring ---

type fixture struct {
	users   *fakeUserRepo
	stores  *fakeStoreRepo
	ratings *fakeRatingRepo
	tx      *fakeTxManager
	tokens  *fakeTokenService
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	ratings := newFakeRatingRepo(users)
	stores := newFakeStoreRepo(ratings)
	ratings.stores = stores

	return &fixture{
		users:   users,
		stores:  stores,
		ratings: ratings,
		tx:      &fakeTxManager{factory: &fakeRepoFactory{users: users, stores: stores, ratings: ratings}},
		tokens:  &fakeTokenService{},
	}
}

func (f *fixture) addUser(t *testing.T, name, email string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashed:password",
		Address:      "1 Test Street",
		Role:         role,
	}
	require.NoError(t, f.users.Create(context.Background(), user))

	return user
}

func (f *fixture) addStore(t *testing.T, name string, ownerID uuid.UUID) *entity.Store {
	t.Helper()

	store := &entity.Store{
		Name:    name,
		Email:   strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@example.com",
		Address: "2 Market Square",
		OwnerID: ownerID,
	}
	require.NoError(t, f.stores.Create(context.Background(), store))

	return store
}
