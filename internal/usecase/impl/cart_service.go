package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
)

// cartService implements the CartUsecase interface. Entries are persisted,
// the selection lives in memory only.
type cartService struct {
	store     repository.DocumentStore
	publisher service.EventPublisher
	logger    *slog.Logger
	locks     *ownerLocks
	now       func() time.Time

	selMu     sync.Mutex
	selection map[uuid.UUID][]entity.LessonID
}

// NewCartService is the constructor for cartService.
func NewCartService(
	store repository.DocumentStore,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		locks:     newOwnerLocks(),
		now:       time.Now,
		selection: make(map[uuid.UUID][]entity.LessonID),
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// View returns the cart and its selection.
func (srv *cartService) View(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return srv.view(ownerID, entries), nil
}

// Add appends the lesson unless its id is already in the cart.
func (srv *cartService) Add(ctx context.Context, ownerID uuid.UUID, lesson entity.Lesson) (*usecase.CartView, error) {
	if err := lesson.Validate(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	unlock := srv.locks.lock(ownerID)
	defer unlock()

	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if indexOfLesson(entries, lesson.ID) >= 0 {
		return nil, domainerrors.ErrCartDuplicate.WithDetails(lesson.PlaceName)
	}

	entries = append(entries, lesson.Clone())
	if err := saveJSON(ctx, srv.store, ownerID, repository.KeyCart, entries); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Lesson added to cart", slog.String("lesson_id", lesson.ID.String()), slog.Int("count", len(entries)))

	return srv.view(ownerID, entries), nil
}

// ToggleSelect flips the selection of one entry.
func (srv *cartService) ToggleSelect(ctx context.Context, ownerID uuid.UUID, id entity.LessonID) (*usecase.CartView, error) {
	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if indexOfLesson(entries, id) < 0 {
		return nil, domainerrors.ErrCartEntryNotFound.WithDetails(id.String())
	}

	srv.selMu.Lock()
	selected := srv.selection[ownerID]
	if i := slices.Index(selected, id); i >= 0 {
		selected = slices.Delete(selected, i, i+1)
	} else {
		selected = append(selected, id)
	}
	srv.setSelectionLocked(ownerID, selected)
	srv.selMu.Unlock()

	return srv.view(ownerID, entries), nil
}

// SelectAll selects every entry.
func (srv *cartService) SelectAll(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	srv.selMu.Lock()
	srv.setSelectionLocked(ownerID, lessonIDs(entries))
	srv.selMu.Unlock()

	return srv.view(ownerID, entries), nil
}

// DeselectAll clears the selection.
func (srv *cartService) DeselectAll(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	srv.selMu.Lock()
	srv.setSelectionLocked(ownerID, nil)
	srv.selMu.Unlock()

	return srv.view(ownerID, entries), nil
}

// ToggleSelectAll clears a complete selection, otherwise selects everything.
func (srv *cartService) ToggleSelectAll(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if srv.view(ownerID, entries).AllSelected {
		return srv.DeselectAll(ctx, ownerID)
	}

	return srv.SelectAll(ctx, ownerID)
}

// RemoveSelected drops every selected entry, persists the rest and clears the selection.
func (srv *cartService) RemoveSelected(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	unlock := srv.locks.lock(ownerID)
	defer unlock()

	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	selected := srv.selectedIDs(ownerID)
	remaining := slices.DeleteFunc(entries, func(lesson entity.Lesson) bool {
		return slices.Contains(selected, lesson.ID)
	})

	if err := saveJSON(ctx, srv.store, ownerID, repository.KeyCart, remaining); err != nil {
		return nil, err
	}

	srv.selMu.Lock()
	srv.setSelectionLocked(ownerID, nil)
	srv.selMu.Unlock()

	return srv.view(ownerID, remaining), nil
}

// Checkout publishes the lessons to pay for. The cart itself is left unchanged.
func (srv *cartService) Checkout(ctx context.Context, ownerID uuid.UUID) (*usecase.CheckoutResult, error) {
	entries, err := srv.loadEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domainerrors.ErrCartEmpty
	}

	lessons := entries
	if selected := srv.selectedIDs(ownerID); len(selected) > 0 {
		lessons = slices.DeleteFunc(slices.Clone(entries), func(lesson entity.Lesson) bool {
			return !slices.Contains(selected, lesson.ID)
		})
	}

	event := &service.CartCheckoutEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		EventID:   uuid.New().String(),
		OwnerID:   ownerID.String(),
		Lessons:   lessons,
		CreatedAt: srv.now(),
	}

	if err := srv.publisher.PublishCartCheckout(ctx, event); err != nil {
		return nil, errors.Wrap(err, "failed to publish checkout event")
	}

	srv.log(ctx).Info("Cart checkout published",
		slog.String("event_id", event.EventID),
		slog.Int("lessons", len(lessons)),
	)

	return &usecase.CheckoutResult{EventID: event.EventID, Lessons: lessons}, nil
}

// loadEntries reads the persisted cart. A missing or corrupt document is an empty cart.
func (srv *cartService) loadEntries(ctx context.Context, ownerID uuid.UUID) ([]entity.Lesson, error) {
	return loadList[entity.Lesson](ctx, srv.store, ownerID, repository.KeyCart, srv.log(ctx))
}

func (srv *cartService) selectedIDs(ownerID uuid.UUID) []entity.LessonID {
	srv.selMu.Lock()
	defer srv.selMu.Unlock()

	return slices.Clone(srv.selection[ownerID])
}

// setSelectionLocked must be called with selMu held.
func (srv *cartService) setSelectionLocked(ownerID uuid.UUID, ids []entity.LessonID) {
	if len(ids) == 0 {
		delete(srv.selection, ownerID)

		return
	}

	srv.selection[ownerID] = ids
}

// view builds the rendered cart. Selected ids that no longer match an entry are ignored.
func (srv *cartService) view(ownerID uuid.UUID, entries []entity.Lesson) *usecase.CartView {
	selected := slices.DeleteFunc(srv.selectedIDs(ownerID), func(id entity.LessonID) bool {
		return indexOfLesson(entries, id) < 0
	})
	if selected == nil {
		selected = []entity.LessonID{}
	}

	return &usecase.CartView{
		Entries:       entity.CloneLessons(entries),
		SelectedIDs:   selected,
		Count:         len(entries),
		SelectedCount: len(selected),
		AllSelected:   len(entries) > 0 && len(selected) == len(entries),
	}
}

func indexOfLesson(lessons []entity.Lesson, id entity.LessonID) int {
	return slices.IndexFunc(lessons, func(lesson entity.Lesson) bool {
		return lesson.ID == id
	})
}

func lessonIDs(lessons []entity.Lesson) []entity.LessonID {
	ids := make([]entity.LessonID, 0, len(lessons))
	for _, lesson := range lessons {
		ids = append(ids, lesson.ID)
	}

	return ids
}
