// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
)

// addressBookService implements the AddressBookUsecase interface.
type addressBookService struct {
	store    repository.DocumentStore
	geocoder service.Geocoder
	logger   *slog.Logger
	locks    *ownerLocks

	editMu   sync.Mutex
	editMode map[uuid.UUID]bool
}

// NewAddressBookService is the constructor for addressBookService.
func NewAddressBookService(
	store repository.DocumentStore,
	geocoder service.Geocoder,
	logger *slog.Logger,
) usecase.AddressBookUsecase {
	return &addressBookService{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
		locks:    newOwnerLocks(),
		editMode: make(map[uuid.UUID]bool),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *addressBookService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List reads the persisted address book.
func (srv *addressBookService) List(ctx context.Context, ownerID uuid.UUID) (*entity.AddressBook, error) {
	addresses, err := srv.loadAddresses(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return srv.book(ctx, ownerID, addresses)
}

// AddFromText geocodes the text and appends the canonical address.
func (srv *addressBookService) AddFromText(ctx context.Context, ownerID uuid.UUID, text string) (*entity.AddressBook, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, domainerrors.ErrAddressEmpty
	}

	resolved, err := srv.geocoder.SearchAddress(ctx, query)
	if err != nil {
		srv.log(ctx).Warn("Address search failed", slog.String("query", query), slog.Any("error", err))

		return nil, geocodeError(err)
	}

	return srv.append(ctx, ownerID, resolved.Canonical(entity.UnknownAddressMarker))
}

// AddCurrentLocation reverse geocodes the reported position and appends the result.
func (srv *addressBookService) AddCurrentLocation(ctx context.Context, ownerID uuid.UUID, report entity.PositionReport) (*entity.AddressBook, error) {
	if err := positionError(report); err != nil {
		return nil, err
	}

	resolved, err := srv.geocoder.ReverseGeocode(ctx, report.Coordinate)
	if err != nil {
		srv.log(ctx).Warn("Reverse geocoding failed",
			slog.Float64("lat", report.Coordinate.Lat),
			slog.Float64("lng", report.Coordinate.Lng),
			slog.Any("error", err),
		)

		return nil, geocodeError(err)
	}

	return srv.append(ctx, ownerID, resolved.Canonical(entity.UnknownLocationMarker))
}

func (srv *addressBookService) append(ctx context.Context, ownerID uuid.UUID, address string) (*entity.AddressBook, error) {
	unlock := srv.locks.lock(ownerID)
	defer unlock()

	addresses, err := srv.loadAddresses(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if slices.Contains(addresses, address) {
		return nil, domainerrors.ErrAddressDuplicate.WithDetails(address)
	}

	addresses = append(addresses, address)
	if err := saveJSON(ctx, srv.store, ownerID, repository.KeySavedAddresses, addresses); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Address saved", slog.Any("owner_id", ownerID), slog.Int("count", len(addresses)))

	return srv.book(ctx, ownerID, addresses)
}

// Edit replaces the address at index with the trimmed text.
func (srv *addressBookService) Edit(ctx context.Context, ownerID uuid.UUID, index int, text string) (*entity.AddressBook, error) {
	address := strings.TrimSpace(text)
	if address == "" {
		return nil, domainerrors.ErrAddressEmpty
	}

	unlock := srv.locks.lock(ownerID)
	defer unlock()

	addresses, err := srv.loadAddresses(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(addresses) {
		return nil, domainerrors.ErrAddressIndexOutOfRange
	}

	// Re-submitting the current value is not a duplicate of itself.
	if addresses[index] == address {
		return srv.book(ctx, ownerID, addresses)
	}

	if slices.Contains(addresses, address) {
		return nil, domainerrors.ErrAddressDuplicate.WithDetails(address)
	}

	addresses[index] = address
	if err := saveJSON(ctx, srv.store, ownerID, repository.KeySavedAddresses, addresses); err != nil {
		return nil, err
	}

	return srv.book(ctx, ownerID, addresses)
}

// Remove deletes the address at index. Nothing changes until the removal is confirmed.
func (srv *addressBookService) Remove(ctx context.Context, ownerID uuid.UUID, index int, confirmed bool) (*entity.AddressBook, error) {
	if !confirmed {
		return nil, domainerrors.ErrConfirmationRequired
	}

	unlock := srv.locks.lock(ownerID)
	defer unlock()

	addresses, err := srv.loadAddresses(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(addresses) {
		return nil, domainerrors.ErrAddressIndexOutOfRange
	}

	addresses = slices.Delete(addresses, index, index+1)
	if err := saveJSON(ctx, srv.store, ownerID, repository.KeySavedAddresses, addresses); err != nil {
		return nil, err
	}

	return srv.book(ctx, ownerID, addresses)
}

// SetEditMode toggles the transient edit mode.
func (srv *addressBookService) SetEditMode(ctx context.Context, ownerID uuid.UUID, on bool) (*entity.AddressBook, error) {
	srv.editMu.Lock()
	if on {
		srv.editMode[ownerID] = true
	} else {
		delete(srv.editMode, ownerID)
	}
	srv.editMu.Unlock()

	return srv.List(ctx, ownerID)
}

// Select persists address as the selected search origin.
func (srv *addressBookService) Select(ctx context.Context, ownerID uuid.UUID, address string) (*entity.AddressBook, error) {
	if srv.inEditMode(ownerID) {
		return nil, domainerrors.ErrEditModeActive
	}

	unlock := srv.locks.lock(ownerID)
	defer unlock()

	addresses, err := srv.loadAddresses(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(addresses, address) {
		return nil, domainerrors.ErrAddressNotSaved.WithDetails(address)
	}

	if err := saveString(ctx, srv.store, ownerID, repository.KeySelectedAddress, address); err != nil {
		return nil, err
	}

	return srv.book(ctx, ownerID, addresses)
}

// Selected returns the persisted selected address.
func (srv *addressBookService) Selected(ctx context.Context, ownerID uuid.UUID) (string, error) {
	return loadString(ctx, srv.store, ownerID, repository.KeySelectedAddress)
}

func (srv *addressBookService) inEditMode(ownerID uuid.UUID) bool {
	srv.editMu.Lock()
	defer srv.editMu.Unlock()

	return srv.editMode[ownerID]
}

// loadAddresses reads the saved list. A missing or corrupt document reads as empty.
func (srv *addressBookService) loadAddresses(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	return loadList[string](ctx, srv.store, ownerID, repository.KeySavedAddresses, srv.log(ctx))
}

func (srv *addressBookService) book(ctx context.Context, ownerID uuid.UUID, addresses []string) (*entity.AddressBook, error) {
	selected, err := srv.Selected(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &entity.AddressBook{
		Addresses: slices.Clone(addresses),
		Selected:  selected,
		EditMode:  srv.inEditMode(ownerID),
	}, nil
}
