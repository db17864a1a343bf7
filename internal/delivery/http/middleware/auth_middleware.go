package middleware

import (
	"strings"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/delivery/http/response"
	"ratehub/internal/domain/access"
	"ratehub/internal/domain/entity"
	"ratehub/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware is the identity resolver: it turns a request's
// authorization header into a Principal, and enforces route
// requirements against the access policy.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and stores the resolved
// Principal on the context. The status split is deliberate and load
// bearing: an absent credential (no header, or no token after the
// scheme) is 401, while a credential that is present but fails
// verification is 403.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "AUTH_HEADER_MISSING", "Authorization header missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "TOKEN_MISSING", "Token missing")
		}

		claims, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return response.Forbidden(c, "TOKEN_INVALID", "Invalid token")
		}

		principal := claims.Principal()
		c.Set(string(deliverycontext.KeyPrincipal), principal)

		return next(c)
	}
}

// Require is a middleware factory enforcing one access requirement.
// It must be used AFTER Authenticate: a request that reaches it without
// a resolved Principal short-circuits to 401 before the policy runs.
func (m *AuthMiddleware) Require(requirement access.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return response.Unauthorized(c, "AUTH_HEADER_MISSING", "Authorization header missing")
			}

			if !access.Allow(principal, requirement) {
				return response.Forbidden(c, "FORBIDDEN", "Access denied: requires "+requirement.String())
			}

			return next(c)
		}
	}
}

// GetPrincipal extracts the resolved Principal from the echo context.
func GetPrincipal(c echo.Context) (entity.Principal, bool) {
	principal, ok := c.Get(string(deliverycontext.KeyPrincipal)).(entity.Principal)

	return principal, ok
}
