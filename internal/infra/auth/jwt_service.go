// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ratehub/config"
	"ratehub/internal/domain/entity"
	"ratehub/internal/domain/service"
	"ratehub/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing tokens.
	ttl    time.Duration // Time-to-live applied to every issued token.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Token.Secret == "" {
		return nil, errors.New("token secret must be provided")
	}

	ttl := cfg.Token.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &jwtService{
		secret: cfg.Token.Secret,
		ttl:    ttl,
	}, nil
}

// Issue signs a token embedding the user's identity claims. A store
// binding is added only when the caller resolved one (store owners).
func (s *jwtService) Issue(user *entity.User, storeID *uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role.String(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	if storeID != nil {
		claims["store_id"] = storeID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify validates structure, signature method, signature, and expiry,
// then decodes the claim set. Any failure is reported as an error; the
// caller decides how a bad token surfaces to the client.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected token claims type")
	}

	return decodeClaims(mapClaims)
}

// TokenDuration returns the configured lifetime for issued tokens.
func (s *jwtService) TokenDuration() time.Duration {
	return s.ttl
}

func decodeClaims(mapClaims jwt.MapClaims) (*service.Claims, error) {
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, errors.New("subject missing from token")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject in token")
	}

	email, _ := mapClaims["email"].(string)

	roleStr, ok := mapClaims["role"].(string)
	role := entity.Role(roleStr)
	if !ok || !role.IsValid() {
		return nil, errors.Errorf("invalid role in token: %q", roleStr)
	}

	claims := &service.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	if storeStr, ok := mapClaims["store_id"].(string); ok && storeStr != "" {
		storeID, err := uuid.Parse(storeStr)
		if err != nil {
			return nil, errors.Wrap(err, "invalid store binding in token")
		}
		claims.StoreID = &storeID
	}

	return claims, nil
}
