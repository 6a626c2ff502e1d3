package usecase

import (
	"context"
	"time"

	"lessonradar/internal/domain/entity"

	"github.com/google/uuid"
)

// LoginResult is returned after a successful login.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Session     *entity.Session `json:"session"`
}

// SessionUsecase handles accounts and login state.
type SessionUsecase interface {
	// Signup registers an ID/password account.
	Signup(ctx context.Context, userID, password string) (*entity.Session, error)

	// Login checks the password of an ID/password account and starts a session.
	Login(ctx context.Context, userID, password string) (*LoginResult, error)

	// KakaoLogin starts a session for the profile behind accessToken.
	KakaoLogin(ctx context.Context, accessToken string) (*LoginResult, error)

	// Logout clears the login flag and ends the current session.
	Logout(ctx context.Context, ownerID uuid.UUID) error

	// Authorize reports ErrSessionRevoked unless sessionID is the owner's live session.
	Authorize(ctx context.Context, ownerID, sessionID uuid.UUID) error

	// ChangePassword replaces the password of an ID/password account.
	ChangePassword(ctx context.Context, ownerID uuid.UUID, current, next string) error

	// Profile returns the persisted login state.
	Profile(ctx context.Context, ownerID uuid.UUID) (*entity.Session, error)
}
