package service

import (
	"time"

	"lessonradar/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for the access tokens.
type Claims struct {
	OwnerID   uuid.UUID           `json:"oid"`
	SessionID uuid.UUID           `json:"sid"`
	Provider  entity.ProviderType `json:"provider"`
	jwt.RegisteredClaims
}

// TokenService issues and validates access tokens.
type TokenService interface {
	// GenerateAccessToken creates a signed token bound to one login session of
	// an owner and returns its expiry.
	GenerateAccessToken(ownerID, sessionID uuid.UUID, provider entity.ProviderType) (token string, expiresAt time.Time, err error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)
}
