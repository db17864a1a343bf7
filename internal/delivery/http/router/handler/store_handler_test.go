package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/delivery/http/response"
	"ratehub/internal/domain/entity"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubRatingUsecase records calls and returns canned values.
type stubRatingUsecase struct {
	submitted   []int
	summaries   []entity.StoreSummary
	dashboard   *entity.OwnerDashboard
	submitErr   error
	listFilters usecase.StoreListFilters
}

func (s *stubRatingUsecase) SubmitRating(ctx context.Context, userID, storeID uuid.UUID, value int) error {
	s.submitted = append(s.submitted, value)

	return s.submitErr
}

func (s *stubRatingUsecase) ListStores(ctx context.Context, userID uuid.UUID, filters usecase.StoreListFilters) ([]entity.StoreSummary, error) {
	s.listFilters = filters

	return s.summaries, nil
}

func (s *stubRatingUsecase) StoreSummary(ctx context.Context, storeID, requestingUserID uuid.UUID) (*entity.StoreSummary, error) {
	return nil, nil
}

func (s *stubRatingUsecase) OwnerDashboard(ctx context.Context, storeID *uuid.UUID) (*entity.OwnerDashboard, error) {
	return s.dashboard, nil
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, role entity.Role) entity.Principal {
	principal := entity.Principal{
		ID:    uuid.New(),
		Email: "someone@example.com",
		Role:  role,
	}
	c.Set(string(deliverycontext.KeyPrincipal), principal)

	return principal
}

func TestSubmitRating_ParsesBodyAndStoreID(t *testing.T) {
	stub := &stubRatingUsecase{}
	h := NewStoreHandler(stub, discardLogger())

	storeID := uuid.New()
	c, rec := newTestContext(http.MethodPost, "/stores/"+storeID.String()+"/rate", `{"rating":4}`)
	c.SetParamNames("storeId")
	c.SetParamValues(storeID.String())
	withPrincipal(c, entity.RoleUser)

	require.NoError(t, h.SubmitRating(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.submitted, 1)
	assert.Equal(t, 4, stub.submitted[0])
}

func TestSubmitRating_MalformedStoreIDIs400(t *testing.T) {
	stub := &stubRatingUsecase{}
	h := NewStoreHandler(stub, discardLogger())

	c, rec := newTestContext(http.MethodPost, "/stores/not-a-uuid/rate", `{"rating":4}`)
	c.SetParamNames("storeId")
	c.SetParamValues("not-a-uuid")
	withPrincipal(c, entity.RoleUser)

	require.NoError(t, h.SubmitRating(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.submitted)
}

func TestSubmitRating_MissingPrincipalIs401(t *testing.T) {
	stub := &stubRatingUsecase{}
	h := NewStoreHandler(stub, discardLogger())

	c, rec := newTestContext(http.MethodPost, "/stores/abc/rate", `{"rating":4}`)

	require.NoError(t, h.SubmitRating(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListStores_PassesQueryFilters(t *testing.T) {
	rating := 4
	stub := &stubRatingUsecase{
		summaries: []entity.StoreSummary{{
			StoreID:       uuid.New(),
			Name:          "Corner Shop",
			OverallRating: 4.5,
			RatingCount:   2,
			UserRating:    &rating,
		}},
	}
	h := NewStoreHandler(stub, discardLogger())

	c, rec := newTestContext(http.MethodGet, "/stores?name=corner&address=market", "")
	withPrincipal(c, entity.RoleUser)

	require.NoError(t, h.ListStores(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "corner", stub.listFilters.Name)
	assert.Equal(t, "market", stub.listFilters.Address)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)

	var summaries []entity.StoreSummary
	require.NoError(t, json.Unmarshal(raw, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Corner Shop", summaries[0].Name)
	assert.Equal(t, 4.5, summaries[0].OverallRating)
	require.NotNil(t, summaries[0].UserRating)
	assert.Equal(t, 4, *summaries[0].UserRating)
}

func TestOwnerDashboard_ReturnsDashboard(t *testing.T) {
	stub := &stubRatingUsecase{
		dashboard: &entity.OwnerDashboard{
			StoreName:     "Corner Shop",
			AverageRating: 4.5,
			Ratings: []entity.RatedBy{
				{UserName: "Bob", Email: "bob@example.com", Value: 5},
				{UserName: "Alice", Email: "alice@example.com", Value: 4},
			},
		},
	}
	h := NewStoreHandler(stub, discardLogger())

	c, rec := newTestContext(http.MethodGet, "/store/dashboard", "")
	withPrincipal(c, entity.RoleStoreOwner)

	require.NoError(t, h.OwnerDashboard(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)

	var dashboard entity.OwnerDashboard
	require.NoError(t, json.Unmarshal(raw, &dashboard))
	assert.Equal(t, "Corner Shop", dashboard.StoreName)
	require.Len(t, dashboard.Ratings, 2)
	assert.Equal(t, "Bob", dashboard.Ratings[0].UserName)
}
