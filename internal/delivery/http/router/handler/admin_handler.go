package handler

import (
	"log/slog"
	"net/http"

	"ratehub/internal/delivery/http/response"
	"ratehub/internal/domain/repository"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler serves the administrative endpoints.
type AdminHandler struct {
	uc     usecase.AdminUsecase
	logger *slog.Logger
}

func NewAdminHandler(uc usecase.AdminUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		uc:     uc,
		logger: logger,
	}
}

// Dashboard returns the platform-wide totals.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.uc.GlobalStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "Dashboard retrieved successfully")
}

// ListUsers returns users matching the query filters. All supplied
// filters must match.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	filters := repository.UserFilters{
		Name:    c.QueryParam("name"),
		Email:   c.QueryParam("email"),
		Address: c.QueryParam("address"),
		Role:    c.QueryParam("role"),
	}

	users, err := h.uc.QueryUsers(c.Request().Context(), filters)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "Users retrieved successfully")
}

// ListStores returns stores with aggregate ratings matching the filters.
func (h *AdminHandler) ListStores(c echo.Context) error {
	filters := repository.StoreFilters{
		Name:    c.QueryParam("name"),
		Email:   c.QueryParam("email"),
		Address: c.QueryParam("address"),
	}

	stores, err := h.uc.QueryStores(c.Request().Context(), filters)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stores, "Stores retrieved successfully")
}

// UserDetail returns a single user, with the owned store's average
// rating attached for store owners.
func (h *AdminHandler) UserDetail(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	detail, err := h.uc.UserDetail(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, detail, "User retrieved successfully")
}

// CreateUser provisions a user of any role.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	input := new(usecase.CreateUserInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.CreateUser(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "User created successfully")
}

// CreateStore provisions a store bound to an existing store owner.
func (h *AdminHandler) CreateStore(c echo.Context) error {
	input := new(usecase.CreateStoreInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	store, err := h.uc.CreateStore(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, store, "Store created successfully")
}
