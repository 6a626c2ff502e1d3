package usecase

import (
	"context"

	"lessonradar/internal/domain/entity"

	"github.com/google/uuid"
)

// CartView is the cart as rendered, entries plus the transient selection.
type CartView struct {
	Entries       []entity.Lesson   `json:"entries"`
	SelectedIDs   []entity.LessonID `json:"selected_ids"`
	Count         int               `json:"count"`
	SelectedCount int               `json:"selected_count"`
	AllSelected   bool              `json:"all_selected"`
}

// CheckoutResult describes a published checkout.
type CheckoutResult struct {
	EventID string          `json:"event_id"`
	Lessons []entity.Lesson `json:"lessons"`
}

// CartUsecase manages an owner's cart.
type CartUsecase interface {
	View(ctx context.Context, ownerID uuid.UUID) (*CartView, error)

	// Add appends a lesson unless one with the same id is already present.
	Add(ctx context.Context, ownerID uuid.UUID, lesson entity.Lesson) (*CartView, error)

	ToggleSelect(ctx context.Context, ownerID uuid.UUID, id entity.LessonID) (*CartView, error)
	SelectAll(ctx context.Context, ownerID uuid.UUID) (*CartView, error)
	DeselectAll(ctx context.Context, ownerID uuid.UUID) (*CartView, error)

	// ToggleSelectAll clears the selection when everything is selected, else selects all.
	ToggleSelectAll(ctx context.Context, ownerID uuid.UUID) (*CartView, error)

	// RemoveSelected drops the selected entries and clears the selection.
	RemoveSelected(ctx context.Context, ownerID uuid.UUID) (*CartView, error)

	// Checkout publishes the selected entries, or all entries when none are selected.
	Checkout(ctx context.Context, ownerID uuid.UUID) (*CheckoutResult, error)
}
