package handler

import (
	"log/slog"
	"net/http"

	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/response"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StoreHandler serves the store listing and rating endpoints.
type StoreHandler struct {
	uc     usecase.RatingUsecase
	logger *slog.Logger
}

func NewStoreHandler(uc usecase.RatingUsecase, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListStores returns all stores with aggregate ratings and, for the
// calling user, their own rating per store. Name and address filters
// match if either one does.
func (h *StoreHandler) ListStores(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_HEADER_MISSING", "Authorization header missing")
	}

	filters := usecase.StoreListFilters{
		Name:    c.QueryParam("name"),
		Address: c.QueryParam("address"),
	}

	stores, err := h.uc.ListStores(c.Request().Context(), principal.ID, filters)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stores, "Stores retrieved successfully")
}

// SubmitRating records or replaces the caller's rating for a store.
func (h *StoreHandler) SubmitRating(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_HEADER_MISSING", "Authorization header missing")
	}

	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid store id")
	}

	input := new(usecase.SubmitRatingInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating input")
	}

	if err := h.uc.SubmitRating(c.Request().Context(), principal.ID, storeID, input.Value); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Rating submitted successfully"}, "Rating submitted successfully")
}

// OwnerDashboard returns the dashboard for the store owned by the caller.
func (h *StoreHandler) OwnerDashboard(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_HEADER_MISSING", "Authorization header missing")
	}

	dashboard, err := h.uc.OwnerDashboard(c.Request().Context(), principal.StoreID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "Dashboard retrieved successfully")
}
