package usecase

import (
	"context"

	"lessonradar/internal/domain/entity"
	"lessonradar/internal/domain/service"

	"github.com/google/uuid"
)

// CheckoutHistoryUsecase records published checkouts and lists them per owner.
type CheckoutHistoryUsecase interface {
	// Record stores the event once. Redelivered events report recorded=false.
	Record(ctx context.Context, event *service.CartCheckoutEvent) (recorded bool, err error)

	// List returns the owner's checkouts, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]entity.Checkout, error)
}
