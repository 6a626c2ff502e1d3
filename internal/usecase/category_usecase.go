package usecase

import (
	"context"

	"lessonradar/internal/domain/entity"

	"github.com/google/uuid"
)

// LocationUnavailablePlaceholder is shown when no address can be resolved.
const LocationUnavailablePlaceholder = "location unavailable"

// AddressSource says where the category screen's address came from.
type AddressSource string

const (
	AddressSourceExplicit AddressSource = "explicit"
	AddressSourceSelected AddressSource = "selected"
	AddressSourceCurrent  AddressSource = "current_location"
	AddressSourceUnset    AddressSource = "unset"
)

// CategoryOption is one button on the category screen.
type CategoryOption struct {
	ID    entity.Category `json:"id"`
	Label string          `json:"label"`
}

// CategoryView is everything the category screen renders.
type CategoryView struct {
	Address     string           `json:"address"`
	Source      AddressSource    `json:"source"`
	Placeholder bool             `json:"placeholder"`
	Reason      string           `json:"reason,omitempty"` // Error code explaining an unset address.
	Categories  []CategoryOption `json:"categories"`
}

// CategoryUsecase resolves the search origin and turns a category choice into a lesson query.
type CategoryUsecase interface {
	// Categories lists the fixed categories in display order.
	Categories() []CategoryOption

	// Resolve picks the address to display: explicit, then selected, then the
	// reverse-geocoded position. It never fails for a missing address.
	Resolve(ctx context.Context, ownerID uuid.UUID, explicitAddress string, position *entity.PositionReport) (*CategoryView, error)

	// Choose validates the category and emits the query for the lesson search.
	Choose(ctx context.Context, ownerID uuid.UUID, address string, category string) (*entity.LessonQuery, error)
}
