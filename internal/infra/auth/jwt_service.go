// Package auth implements access tokens and password hashing.
package auth

import (
	"time"

	"lessonradar/config"
	"lessonradar/internal/domain/entity"
	"lessonradar/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const issuer = "lessonradar"

// jwtService signs HS256 access tokens whose subject is the owner ID.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    cfg.SecretKey.AccessTTL,
		now:    time.Now,
	}, nil
}

// GenerateAccessToken creates a signed token for one login session of an owner.
func (s *jwtService) GenerateAccessToken(ownerID, sessionID uuid.UUID, provider entity.ProviderType) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := service.Claims{
		OwnerID:   ownerID,
		SessionID: sessionID,
		Provider:  provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   ownerID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}

	return signed, expiresAt, nil
}

// ValidateToken verifies signature, issuer and expiry and returns the claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}
	if claims.OwnerID == uuid.Nil || claims.Subject != claims.OwnerID.String() {
		return nil, errors.New("invalid access token: owner mismatch")
	}
	if claims.SessionID == uuid.Nil {
		return nil, errors.New("invalid access token: missing session")
	}

	return claims, nil
}
