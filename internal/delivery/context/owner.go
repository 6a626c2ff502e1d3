package context

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// KeyOwnerID is the key for storing the authenticated owner in context.
const KeyOwnerID ContextKey = "owner_id"

// SetOwnerID stores the authenticated owner on both echo.Context and the request context.
func SetOwnerID(c echo.Context, ownerID uuid.UUID) {
	c.Set(string(KeyOwnerID), ownerID)

	req := c.Request()
	c.SetRequest(req.WithContext(WithOwnerID(req.Context(), ownerID)))
}

// GetOwnerID returns the authenticated owner, if any.
func GetOwnerID(c echo.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(string(KeyOwnerID)).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, false
	}

	return ownerID, true
}

// WithOwnerID returns a new context carrying the owner.
func WithOwnerID(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, KeyOwnerID, ownerID)
}

// GetOwnerIDFromContext extracts the owner from a standard context.
func GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(KeyOwnerID).(uuid.UUID)

	return ownerID, ok && ownerID != uuid.Nil
}
