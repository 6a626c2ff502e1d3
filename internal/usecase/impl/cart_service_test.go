package impl

import (
	"context"
	"encoding/json"
	"testing"

	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	store     *fakeStore
	publisher *mockPublisher
	service   *cartService
	owner     uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	store := newFakeStore()
	publisher := &mockPublisher{}
	t.Cleanup(func() { publisher.AssertExpectations(t) })

	return &cartFixture{
		store:     store,
		publisher: publisher,
		service:   NewCartService(store, publisher, newDiscardLogger()).(*cartService),
		owner:     uuid.New(),
	}
}

func (f *cartFixture) fill(t *testing.T, lessons ...entity.Lesson) {
	t.Helper()

	for _, l := range lessons {
		_, err := f.service.Add(context.Background(), f.owner, l)
		require.NoError(t, err)
	}
}

func TestCartService_View_Empty(t *testing.T) {
	f := newCartFixture(t)

	view, err := f.service.View(context.Background(), f.owner)

	require.NoError(t, err)
	assert.Equal(t, []entity.Lesson{}, view.Entries)
	assert.Equal(t, []entity.LessonID{}, view.SelectedIDs)
	assert.False(t, view.AllSelected)
}

func TestCartService_Add_DuplicateLeavesCartUnchanged(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	view, err := f.service.Add(ctx, f.owner, lesson(1, "Lesson A"))
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	writes := f.store.writeCount()

	_, err = f.service.Add(ctx, f.owner, lesson(1, "Lesson A"))
	assert.ErrorIs(t, err, domainerrors.ErrCartDuplicate)
	assert.Equal(t, writes, f.store.writeCount())

	view, err = f.service.View(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.JSONEq(t, `[{"id":1,"place_name":"Lesson A"}]`, f.store.raw(f.owner, repository.KeyCart))
}

func TestCartService_Add_IDTypesAreDistinct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	f.fill(t, lesson(1, "Numeric"))
	_, err := f.service.Add(ctx, f.owner, entity.Lesson{ID: entity.StringLessonID("1"), PlaceName: "String"})

	require.NoError(t, err)
	view, err := f.service.View(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
}

func TestCartService_Add_PreservesUnknownFields(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	var record entity.Lesson
	require.NoError(t, json.Unmarshal([]byte(`{"id":"77","place_name":"Range","phone":"053-000","custom":{"a":1}}`), &record))

	_, err := f.service.Add(ctx, f.owner, record)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":"77","place_name":"Range","phone":"053-000","custom":{"a":1}}]`, f.store.raw(f.owner, repository.KeyCart))
}

func TestCartService_Add_Validation(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.service.Add(context.Background(), f.owner, entity.Lesson{PlaceName: "No id"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.service.Add(context.Background(), f.owner, entity.Lesson{ID: entity.NumericLessonID(3)})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_Selection(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	f.fill(t, lesson(1, "A"), lesson(2, "B"), lesson(3, "C"))

	view, err := f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(2))
	require.NoError(t, err)
	assert.Equal(t, []entity.LessonID{entity.NumericLessonID(2)}, view.SelectedIDs)
	assert.Equal(t, 1, view.SelectedCount)
	assert.False(t, view.AllSelected)

	view, err = f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(2))
	require.NoError(t, err)
	assert.Empty(t, view.SelectedIDs)

	_, err = f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(9))
	assert.ErrorIs(t, err, domainerrors.ErrCartEntryNotFound)

	view, err = f.service.SelectAll(ctx, f.owner)
	require.NoError(t, err)
	assert.True(t, view.AllSelected)
	assert.Equal(t, 3, view.SelectedCount)

	view, err = f.service.DeselectAll(ctx, f.owner)
	require.NoError(t, err)
	assert.Zero(t, view.SelectedCount)

	writes := f.store.writeCount()
	_, err = f.service.SelectAll(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, writes, f.store.writeCount(), "selection must not be persisted")
}

func TestCartService_ToggleSelectAll(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	f.fill(t, lesson(1, "A"), lesson(2, "B"))

	_, err := f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(1))
	require.NoError(t, err)

	view, err := f.service.ToggleSelectAll(ctx, f.owner)
	require.NoError(t, err)
	assert.True(t, view.AllSelected)

	view, err = f.service.ToggleSelectAll(ctx, f.owner)
	require.NoError(t, err)
	assert.Zero(t, view.SelectedCount)

	empty := newCartFixture(t)
	view, err = empty.service.ToggleSelectAll(ctx, empty.owner)
	require.NoError(t, err)
	assert.False(t, view.AllSelected)
}

func TestCartService_RemoveSelected(t *testing.T) {
	t.Run("after select all yields empty cart", func(t *testing.T) {
		f := newCartFixture(t)
		ctx := context.Background()
		f.fill(t, lesson(1, "A"), lesson(2, "B"), lesson(3, "C"))

		_, err := f.service.SelectAll(ctx, f.owner)
		require.NoError(t, err)

		view, err := f.service.RemoveSelected(ctx, f.owner)
		require.NoError(t, err)
		assert.Empty(t, view.Entries)
		assert.Empty(t, view.SelectedIDs)
		assert.JSONEq(t, `[]`, f.store.raw(f.owner, repository.KeyCart))
	})

	t.Run("partial selection", func(t *testing.T) {
		f := newCartFixture(t)
		ctx := context.Background()
		f.fill(t, lesson(1, "A"), lesson(2, "B"), lesson(3, "C"))

		_, err := f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(1))
		require.NoError(t, err)
		_, err = f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(3))
		require.NoError(t, err)

		view, err := f.service.RemoveSelected(ctx, f.owner)
		require.NoError(t, err)
		assert.Equal(t, []entity.Lesson{lesson(2, "B")}, view.Entries)
		assert.Empty(t, view.SelectedIDs)
	})

	t.Run("nothing selected", func(t *testing.T) {
		f := newCartFixture(t)
		ctx := context.Background()
		f.fill(t, lesson(1, "A"))

		view, err := f.service.RemoveSelected(ctx, f.owner)
		require.NoError(t, err)
		assert.Equal(t, 1, view.Count)
	})
}

func TestCartService_Checkout(t *testing.T) {
	t.Run("selected entries", func(t *testing.T) {
		f := newCartFixture(t)
		ctx := context.Background()
		f.fill(t, lesson(1, "A"), lesson(2, "B"))
		_, err := f.service.ToggleSelect(ctx, f.owner, entity.NumericLessonID(2))
		require.NoError(t, err)

		f.publisher.On("PublishCartCheckout", ctx, mock.MatchedBy(func(event *service.CartCheckoutEvent) bool {
			return event.OwnerID == f.owner.String() && len(event.Lessons) == 1 && event.Lessons[0].PlaceName == "B"
		})).Return(nil)

		result, err := f.service.Checkout(ctx, f.owner)
		require.NoError(t, err)
		assert.NotEmpty(t, result.EventID)
		assert.Len(t, result.Lessons, 1)

		view, err := f.service.View(ctx, f.owner)
		require.NoError(t, err)
		assert.Equal(t, 2, view.Count, "checkout must not mutate the cart")
	})

	t.Run("all entries when nothing selected", func(t *testing.T) {
		f := newCartFixture(t)
		ctx := context.Background()
		f.fill(t, lesson(1, "A"), lesson(2, "B"))

		f.publisher.On("PublishCartCheckout", ctx, mock.MatchedBy(func(event *service.CartCheckoutEvent) bool {
			return len(event.Lessons) == 2
		})).Return(nil)

		_, err := f.service.Checkout(ctx, f.owner)
		require.NoError(t, err)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newCartFixture(t)

		_, err := f.service.Checkout(context.Background(), f.owner)
		assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
	})

	t.Run("publisher failure", func(t *testing.T) {
		f := newCartFixture(t)
		ctx := context.Background()
		f.fill(t, lesson(1, "A"))
		publishErr := errors.New("topic missing")
		f.publisher.On("PublishCartCheckout", ctx, mock.Anything).Return(publishErr)

		_, err := f.service.Checkout(ctx, f.owner)
		assert.ErrorIs(t, err, publishErr)
	})
}

func TestCartService_CorruptCartReadsAsEmpty(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	f.store.put(f.owner, repository.KeyCart, "{not json")

	view, err := f.service.View(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, []entity.Lesson{}, view.Entries)

	view, err = f.service.Add(ctx, f.owner, entity.Lesson{ID: entity.NumericLessonID(1), PlaceName: "Range"})
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, entity.NumericLessonID(1), view.Entries[0].ID)
}

func TestCartService_View_StorageError(t *testing.T) {
	f := newCartFixture(t)
	f.store.failGet = errors.New("connection reset")

	view, err := f.service.View(context.Background(), f.owner)

	assert.Nil(t, view)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}
