package impl

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ratehub/config"
	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/response"
	"ratehub/internal/delivery/http/router"
	"ratehub/internal/delivery/http/router/handler"
	"ratehub/internal/delivery/http/validator"
	"ratehub/internal/domain/entity"
	"ratehub/internal/infra/auth"
	"ratehub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp assembles the full HTTP stack (router, auth middleware,
// error handler, real JWT codec) over the in-memory fixture.
func newTestApp(t *testing.T, f *fixture) *echo.Echo {
	t.Helper()

	jwtSvc, err := auth.NewJWTService(&config.Config{
		Token: config.TokenConfig{Secret: "test-secret", TTL: time.Hour},
	})
	require.NoError(t, err)

	logger := discardLogger()

	accountSvc := NewAccountService(AccountServiceParams{
		TxManager:    f.tx,
		UserRepo:     f.users,
		StoreRepo:    f.stores,
		Hasher:       fakeHasher{},
		TokenService: jwtSvc,
		Logger:       logger,
	})
	ratingSvc := newRatingService(f)
	adminSvc := newAdminService(f)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		AccountHandler: handler.NewAccountHandler(accountSvc, logger),
		StoreHandler:   handler.NewStoreHandler(ratingSvc, logger),
		AdminHandler:   handler.NewAdminHandler(adminSvc, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtSvc),
	})
	r.RegisterRoutes(e)

	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "unexpected failure envelope: %s", rec.Body.String())

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestRatingFlowEndToEnd(t *testing.T) {
	f := newFixture()
	e := newTestApp(t, f)

	owner := f.addUser(t, "Owner", "owner@example.com", entity.RoleStoreOwner)
	store := f.addStore(t, "Corner Shop", owner.ID)

	rec := doJSON(e, http.MethodPost, "/register", "",
		`{"name":"Flow User","email":"flow@example.com","password":"password","address":"5 Flow Street","role":"user"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/login", "",
		`{"email":"flow@example.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login usecase.LoginOutput
	decodeData(t, rec, &login)
	require.NotEmpty(t, login.Token)

	rec = doJSON(e, http.MethodPost, "/stores/"+store.ID.String()+"/rate", login.Token,
		`{"rating":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/stores", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summaries []entity.StoreSummary
	decodeData(t, rec, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Corner Shop", summaries[0].Name)
	assert.Equal(t, 4.0, summaries[0].OverallRating)
	assert.Equal(t, int64(1), summaries[0].RatingCount)
	require.NotNil(t, summaries[0].UserRating)
	assert.Equal(t, 4, *summaries[0].UserRating)
}

func TestRatingFlow_RejectsBadCredentials(t *testing.T) {
	f := newFixture()
	e := newTestApp(t, f)

	owner := f.addUser(t, "Owner", "owner@example.com", entity.RoleStoreOwner)
	store := f.addStore(t, "Corner Shop", owner.ID)

	rec := doJSON(e, http.MethodPost, "/stores/"+store.ID.String()+"/rate", "", `{"rating":4}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/stores/"+store.ID.String()+"/rate", "forged-token", `{"rating":4}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/stores", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
