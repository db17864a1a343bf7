// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/router/handler"
	"ratehub/internal/domain/access"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	StoreHandler   *handler.StoreHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	storeHandler   *handler.StoreHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		storeHandler:   params.StoreHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public identity routes
	e.POST("/register", r.accountHandler.Register)
	e.POST("/login", r.accountHandler.Login)

	// Routes for any authenticated caller
	authGroup := e.Group("")
	authGroup.Use(r.authMiddleware.Authenticate)
	authGroup.Use(r.authMiddleware.Require(access.AnyAuthenticated))
	{
		authGroup.GET("/stores", r.storeHandler.ListStores)
		authGroup.POST("/stores/:storeId/rate", r.storeHandler.SubmitRating)
		authGroup.PUT("/password", r.accountHandler.UpdatePassword)
	}

	// Administrative routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.Require(access.AdminOnly))
	{
		adminGroup.GET("/dashboard", r.adminHandler.Dashboard)
		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.GET("/users/:id", r.adminHandler.UserDetail)
		adminGroup.GET("/stores", r.adminHandler.ListStores)
		adminGroup.POST("/users", r.adminHandler.CreateUser)
		adminGroup.POST("/stores", r.adminHandler.CreateStore)
	}

	// Store owner routes
	ownerGroup := e.Group("/store")
	ownerGroup.Use(r.authMiddleware.Authenticate)
	ownerGroup.Use(r.authMiddleware.Require(access.StoreOwnerOnly))
	{
		ownerGroup.GET("/dashboard", r.storeHandler.OwnerDashboard)
	}
}
