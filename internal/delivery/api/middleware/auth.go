package middleware

import (
	"log/slog"
	"strings"

	"lessonradar/internal/delivery/api/response"
	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates requests with an access token bound to a live login session.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	sessions usecase.SessionUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, sessions usecase.SessionUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, sessions: sessions, logger: logger}
}

// Authenticate validates the Bearer token, checks that its session has not
// ended, and stores its owner on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || strings.TrimSpace(tokenString) == "" {
			return response.Unauthorized(c, "INVALID_TOKEN_FORMAT", "authorization must be a Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected access token", slog.Any("error", err))

			return response.Unauthorized(c, "INVALID_TOKEN", "invalid or expired token")
		}

		// SESSION_REVOKED after logout or a newer login
		if err := m.sessions.Authorize(c.Request().Context(), claims.OwnerID, claims.SessionID); err != nil {
			return response.HandleAppError(c, err)
		}

		deliverycontext.SetOwnerID(c, claims.OwnerID)

		deliverycontext.AttachLogger(c, deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
			With(slog.String("owner_id", claims.OwnerID.String())))

		return next(c)
	}
}

// GetOwnerID returns the owner set by Authenticate.
func GetOwnerID(c echo.Context) (uuid.UUID, bool) {
	return deliverycontext.GetOwnerID(c)
}
