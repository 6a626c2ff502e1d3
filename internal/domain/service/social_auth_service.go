package service

import (
	"context"

	"lessonradar/internal/domain/entity"
)

// SocialAuthService exchanges a social-login access token for the user's profile.
type SocialAuthService interface {
	// FetchProfile returns the profile the token belongs to.
	FetchProfile(ctx context.Context, accessToken string) (*entity.SocialProfile, error)

	// GetProvider returns the provider type
	GetProvider() entity.ProviderType
}
