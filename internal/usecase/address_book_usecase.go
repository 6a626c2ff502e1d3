package usecase

import (
	"context"

	"lessonradar/internal/domain/entity"

	"github.com/google/uuid"
)

// AddressBookUsecase manages an owner's saved addresses and the selected search origin.
type AddressBookUsecase interface {
	// List reads the persisted address book at call time.
	List(ctx context.Context, ownerID uuid.UUID) (*entity.AddressBook, error)

	// AddFromText geocodes free text and saves the canonical address.
	AddFromText(ctx context.Context, ownerID uuid.UUID, text string) (*entity.AddressBook, error)

	// AddCurrentLocation reverse geocodes the client's position and saves the result.
	AddCurrentLocation(ctx context.Context, ownerID uuid.UUID, report entity.PositionReport) (*entity.AddressBook, error)

	// Edit replaces the address at index with trimmed text.
	Edit(ctx context.Context, ownerID uuid.UUID, index int, text string) (*entity.AddressBook, error)

	// Remove deletes the address at index once confirmed.
	Remove(ctx context.Context, ownerID uuid.UUID, index int, confirmed bool) (*entity.AddressBook, error)

	// SetEditMode toggles edit mode, which suppresses selection.
	SetEditMode(ctx context.Context, ownerID uuid.UUID, on bool) (*entity.AddressBook, error)

	// Select makes a saved address the search origin for the category flow.
	Select(ctx context.Context, ownerID uuid.UUID, address string) (*entity.AddressBook, error)

	// Selected returns the persisted selected address, or "" when none is set.
	Selected(ctx context.Context, ownerID uuid.UUID) (string, error)
}
