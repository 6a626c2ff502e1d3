package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
)

// maxCheckoutHistory bounds the stored history; older entries are dropped.
const maxCheckoutHistory = 50

type checkoutHistoryService struct {
	store  repository.DocumentStore
	logger *slog.Logger
	locks  *ownerLocks
	now    func() time.Time
}

// NewCheckoutHistoryService is the constructor for checkoutHistoryService.
func NewCheckoutHistoryService(store repository.DocumentStore, logger *slog.Logger) usecase.CheckoutHistoryUsecase {
	return &checkoutHistoryService{
		store:  store,
		logger: logger,
		locks:  newOwnerLocks(),
		now:    time.Now,
	}
}

func (srv *checkoutHistoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Record appends the checkout to its owner's history unless the event id is already there.
func (srv *checkoutHistoryService) Record(ctx context.Context, event *service.CartCheckoutEvent) (bool, error) {
	if event == nil || strings.TrimSpace(event.EventID) == "" {
		return false, domainerrors.ErrValidationFailed.WithDetails("checkout event id is required")
	}

	ownerID, err := uuid.Parse(event.OwnerID)
	if err != nil || ownerID == uuid.Nil {
		return false, domainerrors.ErrValidationFailed.WithDetails("checkout owner id is invalid")
	}

	unlock := srv.locks.lock(ownerID)
	defer unlock()

	history, err := loadList[entity.Checkout](ctx, srv.store, ownerID, repository.KeyCheckouts, srv.log(ctx))
	if err != nil {
		return false, err
	}

	if slices.ContainsFunc(history, func(c entity.Checkout) bool { return c.EventID == event.EventID }) {
		srv.log(ctx).Info("Checkout already recorded", slog.String("event_id", event.EventID))

		return false, nil
	}

	entry := entity.Checkout{
		EventID:    event.EventID,
		Lessons:    entity.CloneLessons(event.Lessons),
		CreatedAt:  event.CreatedAt,
		ReceivedAt: srv.now(),
	}
	history = append([]entity.Checkout{entry}, history...)
	if len(history) > maxCheckoutHistory {
		history = history[:maxCheckoutHistory]
	}

	if err := saveJSON(ctx, srv.store, ownerID, repository.KeyCheckouts, history); err != nil {
		return false, err
	}

	srv.log(ctx).Info("Checkout recorded",
		slog.String("event_id", event.EventID),
		slog.String("owner_id", ownerID.String()),
		slog.Int("lessons", len(entry.Lessons)),
	)

	return true, nil
}

// List returns the stored history, empty when nothing was recorded.
func (srv *checkoutHistoryService) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Checkout, error) {
	return loadList[entity.Checkout](ctx, srv.store, ownerID, repository.KeyCheckouts, srv.log(ctx))
}
