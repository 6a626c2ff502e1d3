// Package context carries request-scoped values (request id, logger, owner)
// between echo middleware, handlers and the usecases they call.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is the key type for values stored by this package.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"

	// HeaderXRequestID is echoed back on every API and worker response.
	HeaderXRequestID = "X-Request-Id"
)

// Scope returns ctx carrying requestID and base tagged with it, plus that logger.
func Scope(ctx context.Context, base *slog.Logger, requestID string) (context.Context, *slog.Logger) {
	logger := base.With(slog.String("request_id", requestID))

	return WithLogger(WithRequestID(ctx, requestID), logger), logger
}

// ScopeRequest applies Scope to the request behind c and records the id on c.
func ScopeRequest(c echo.Context, base *slog.Logger, requestID string) *slog.Logger {
	c.Set(string(KeyRequestID), requestID)

	ctx, logger := Scope(c.Request().Context(), base, requestID)
	c.SetRequest(c.Request().WithContext(ctx))

	return logger
}

// AttachLogger replaces the request-scoped logger of c.
func AttachLogger(c echo.Context, logger *slog.Logger) {
	req := c.Request()
	c.SetRequest(req.WithContext(WithLogger(req.Context(), logger)))
}

// GetRequestID returns the id assigned by the request id middleware, falling
// back to the request context and finally to a fresh uuid.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}
	if id := GetRequestIDFromContext(c.Request().Context()); id != "" {
		return id
	}

	return uuid.New().String()
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger, or nil outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(KeyLogger).(*slog.Logger)

	return logger
}

func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
