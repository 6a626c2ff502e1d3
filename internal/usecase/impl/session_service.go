package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes.
	maxPasswordBytes = 72
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	store        repository.DocumentStore
	tokenService service.TokenService
	hasher       service.PasswordHasher
	socialAuth   service.SocialAuthService
	locks        *ownerLocks
	logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	store repository.DocumentStore,
	tokenService service.TokenService,
	hasher service.PasswordHasher,
	socialAuth service.SocialAuthService,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		store:        store,
		tokenService: tokenService,
		hasher:       hasher,
		socialAuth:   socialAuth,
		locks:        newOwnerLocks(),
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

type documentWrite struct {
	key   repository.DocumentKey
	value string
}

func (srv *sessionService) write(ctx context.Context, ownerID uuid.UUID, writes ...documentWrite) error {
	for _, w := range writes {
		if err := saveString(ctx, srv.store, ownerID, w.key, w.value); err != nil {
			return err
		}
	}

	return nil
}

func validatePassword(password string) error {
	switch {
	case len([]rune(password)) < minPasswordLength:
		return domainerrors.ErrValidationFailed.WithDetails("password must be at least 8 characters")
	case len(password) > maxPasswordBytes:
		return domainerrors.ErrValidationFailed.WithDetails("password must be at most 72 bytes")
	}

	return nil
}

// Signup registers an ID/password account. The account starts logged out.
func (srv *sessionService) Signup(ctx context.Context, userID, password string) (*entity.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("user id is required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	ownerID := entity.OwnerIDFor(entity.ProviderTypeLocal, userID)
	unlock := srv.locks.lock(ownerID)
	defer unlock()

	existing, err := loadString(ctx, srv.store, ownerID, repository.KeyPasswordHash)
	if err != nil {
		return nil, err
	}
	if existing != "" {
		return nil, domainerrors.ErrUserIDTaken
	}

	hash, err := srv.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	if err := srv.write(ctx, ownerID,
		documentWrite{repository.KeyPasswordHash, hash},
		documentWrite{repository.KeyUserID, userID},
		documentWrite{repository.KeyLoginProvider, string(entity.ProviderTypeLocal)},
	); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account registered", slog.Any("owner_id", ownerID))

	return srv.Profile(ctx, ownerID)
}

// Login checks the password against the stored hash. Unknown IDs and wrong
// passwords fail the same way.
func (srv *sessionService) Login(ctx context.Context, userID, password string) (*usecase.LoginResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return nil, domainerrors.ErrInvalidCredentials
	}

	ownerID := entity.OwnerIDFor(entity.ProviderTypeLocal, userID)
	unlock := srv.locks.lock(ownerID)
	defer unlock()

	hash, err := loadString(ctx, srv.store, ownerID, repository.KeyPasswordHash)
	if err != nil {
		return nil, err
	}
	if !srv.hasher.Check(password, hash) {
		srv.log(ctx).Warn("Rejected login", slog.Any("owner_id", ownerID), slog.Bool("known_id", hash != ""))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return srv.startSession(ctx, ownerID, entity.ProviderTypeLocal,
		documentWrite{repository.KeyUserID, userID},
	)
}

// KakaoLogin records a social login for the profile behind the access token.
func (srv *sessionService) KakaoLogin(ctx context.Context, accessToken string) (*usecase.LoginResult, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("access token is required")
	}

	profile, err := srv.socialAuth.FetchProfile(ctx, accessToken)
	if err != nil {
		srv.log(ctx).Warn("Social profile lookup failed", slog.Any("error", err))
		if errors.Is(err, service.ErrUnavailable) {
			return nil, errors.Wrap(domainerrors.ErrCollaboratorUnavailable.WithDetails(err.Error()), "social login")
		}

		return nil, errors.Wrap(domainerrors.ErrSocialLoginFailed, err.Error())
	}

	provider := srv.socialAuth.GetProvider()
	ownerID := entity.OwnerIDFor(provider, profile.ID)
	unlock := srv.locks.lock(ownerID)
	defer unlock()

	return srv.startSession(ctx, ownerID, provider,
		documentWrite{repository.KeyKakaoNickname, profile.Nickname},
	)
}

// startSession replaces the owner's live session, so tokens from an earlier
// login stop authorizing.
func (srv *sessionService) startSession(
	ctx context.Context,
	ownerID uuid.UUID,
	provider entity.ProviderType,
	writes ...documentWrite,
) (*usecase.LoginResult, error) {
	sessionID := uuid.New()
	writes = append(writes,
		documentWrite{repository.KeyLoginProvider, string(provider)},
		documentWrite{repository.KeySessionID, sessionID.String()},
		documentWrite{repository.KeyIsLoggedIn, "true"},
	)
	if err := srv.write(ctx, ownerID, writes...); err != nil {
		return nil, err
	}

	token, expiresAt, err := srv.tokenService.GenerateAccessToken(ownerID, sessionID, provider)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	session, err := srv.Profile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.Any("owner_id", ownerID), slog.String("provider", string(provider)))

	return &usecase.LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Session:     session,
	}, nil
}

// Logout clears the login flag and the live session. Stored addresses and cart are kept.
func (srv *sessionService) Logout(ctx context.Context, ownerID uuid.UUID) error {
	unlock := srv.locks.lock(ownerID)
	defer unlock()

	return srv.write(ctx, ownerID,
		documentWrite{repository.KeyIsLoggedIn, "false"},
		documentWrite{repository.KeySessionID, ""},
	)
}

// Authorize accepts only the session started by the owner's latest login.
func (srv *sessionService) Authorize(ctx context.Context, ownerID, sessionID uuid.UUID) error {
	loggedIn, err := loadString(ctx, srv.store, ownerID, repository.KeyIsLoggedIn)
	if err != nil {
		return err
	}
	live, err := loadString(ctx, srv.store, ownerID, repository.KeySessionID)
	if err != nil {
		return err
	}

	if loggedIn != "true" || sessionID == uuid.Nil || live != sessionID.String() {
		return domainerrors.ErrSessionRevoked
	}

	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (srv *sessionService) ChangePassword(ctx context.Context, ownerID uuid.UUID, current, next string) error {
	if err := validatePassword(next); err != nil {
		return err
	}

	unlock := srv.locks.lock(ownerID)
	defer unlock()

	hash, err := loadString(ctx, srv.store, ownerID, repository.KeyPasswordHash)
	if err != nil {
		return err
	}
	if !srv.hasher.Check(current, hash) {
		return domainerrors.ErrInvalidCredentials
	}

	newHash, err := srv.hasher.Hash(next)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	if err := saveString(ctx, srv.store, ownerID, repository.KeyPasswordHash, newHash); err != nil {
		return err
	}

	srv.log(ctx).Info("Password changed", slog.Any("owner_id", ownerID))

	return nil
}

// Profile returns the persisted login state.
func (srv *sessionService) Profile(ctx context.Context, ownerID uuid.UUID) (*entity.Session, error) {
	values := make(map[repository.DocumentKey]string, 4)
	for _, key := range []repository.DocumentKey{
		repository.KeyIsLoggedIn,
		repository.KeyUserID,
		repository.KeyKakaoNickname,
		repository.KeyLoginProvider,
	} {
		value, err := loadString(ctx, srv.store, ownerID, key)
		if err != nil {
			return nil, err
		}
		values[key] = value
	}

	return &entity.Session{
		OwnerID:  ownerID,
		LoggedIn: values[repository.KeyIsLoggedIn] == "true",
		Provider: entity.ProviderType(values[repository.KeyLoginProvider]),
		UserID:   values[repository.KeyUserID],
		Nickname: values[repository.KeyKakaoNickname],
	}, nil
}
