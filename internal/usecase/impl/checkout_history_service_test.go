package impl

import (
	"context"
	"strconv"
	"testing"
	"time"

	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutEvent(owner uuid.UUID, eventID string) *service.CartCheckoutEvent {
	return &service.CartCheckoutEvent{
		EventID:   eventID,
		OwnerID:   owner.String(),
		Lessons:   []entity.Lesson{{ID: entity.NumericLessonID(1), PlaceName: "Range"}},
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestCheckoutHistoryService_RecordIsIdempotent(t *testing.T) {
	store := newFakeStore()
	srv := NewCheckoutHistoryService(store, newDiscardLogger()).(*checkoutHistoryService)
	received := time.Date(2026, 10, 1, 9, 0, 5, 0, time.UTC)
	srv.now = func() time.Time { return received }
	owner := uuid.New()
	ctx := context.Background()

	recorded, err := srv.Record(ctx, newCheckoutEvent(owner, "evt-1"))
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = srv.Record(ctx, newCheckoutEvent(owner, "evt-1"))
	require.NoError(t, err)
	assert.False(t, recorded)

	history, err := srv.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "evt-1", history[0].EventID)
	assert.Equal(t, received, history[0].ReceivedAt)
	assert.Equal(t, "Range", history[0].Lessons[0].PlaceName)
}

func TestCheckoutHistoryService_NewestFirstAndBounded(t *testing.T) {
	srv := NewCheckoutHistoryService(newFakeStore(), newDiscardLogger())
	owner := uuid.New()
	ctx := context.Background()

	for i := range maxCheckoutHistory + 3 {
		_, err := srv.Record(ctx, newCheckoutEvent(owner, "evt-"+strconv.Itoa(i)))
		require.NoError(t, err)
	}

	history, err := srv.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, history, maxCheckoutHistory)
	assert.Equal(t, "evt-"+strconv.Itoa(maxCheckoutHistory+2), history[0].EventID)
	assert.Equal(t, "evt-3", history[len(history)-1].EventID)
}

func TestCheckoutHistoryService_RecordRejectsBadEvents(t *testing.T) {
	srv := NewCheckoutHistoryService(newFakeStore(), newDiscardLogger())

	tests := []struct {
		name  string
		event *service.CartCheckoutEvent
	}{
		{name: "nil event", event: nil},
		{name: "missing event id", event: newCheckoutEvent(uuid.New(), " ")},
		{name: "bad owner", event: &service.CartCheckoutEvent{EventID: "evt", OwnerID: "someone"}},
		{name: "nil owner", event: &service.CartCheckoutEvent{EventID: "evt", OwnerID: uuid.Nil.String()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorded, err := srv.Record(context.Background(), tt.event)
			assert.False(t, recorded)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestCheckoutHistoryService_StorageFailure(t *testing.T) {
	store := newFakeStore()
	store.failSet = errors.New("disk full")
	srv := NewCheckoutHistoryService(store, newDiscardLogger())

	_, err := srv.Record(context.Background(), newCheckoutEvent(uuid.New(), "evt-1"))

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}

func TestCheckoutHistoryService_ListEmpty(t *testing.T) {
	srv := NewCheckoutHistoryService(newFakeStore(), newDiscardLogger())

	history, err := srv.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestCheckoutHistoryService_CorruptHistoryReadsAsEmpty(t *testing.T) {
	store := newFakeStore()
	srv := NewCheckoutHistoryService(store, newDiscardLogger())
	owner := uuid.New()
	ctx := context.Background()
	store.put(owner, repository.KeyCheckouts, "[{")

	history, err := srv.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, history)

	recorded, err := srv.Record(ctx, newCheckoutEvent(owner, "evt-1"))
	require.NoError(t, err)
	assert.True(t, recorded)

	history, err = srv.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, history, 1)
}
