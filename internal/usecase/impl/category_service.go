package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
)

type categoryService struct {
	store    repository.DocumentStore
	geocoder service.Geocoder
	logger   *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(
	store repository.DocumentStore,
	geocoder service.Geocoder,
	logger *slog.Logger,
) usecase.CategoryUsecase {
	return &categoryService{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Categories lists the fixed categories in display order.
func (srv *categoryService) Categories() []usecase.CategoryOption {
	categories := entity.Categories()
	options := make([]usecase.CategoryOption, 0, len(categories))
	for _, category := range categories {
		options = append(options, usecase.CategoryOption{ID: category, Label: category.Label()})
	}

	return options
}

// Resolve picks the address the category screen shows.
func (srv *categoryService) Resolve(ctx context.Context, ownerID uuid.UUID, explicitAddress string, position *entity.PositionReport) (*usecase.CategoryView, error) {
	view := &usecase.CategoryView{Categories: srv.Categories()}

	address, source, err := srv.storedAddress(ctx, ownerID, explicitAddress)
	if err != nil {
		return nil, err
	}
	if source != usecase.AddressSourceUnset {
		view.Address = address
		view.Source = source

		return view, nil
	}

	current, reason := srv.currentAddress(ctx, position)
	if reason != "" {
		view.Address = usecase.LocationUnavailablePlaceholder
		view.Source = usecase.AddressSourceUnset
		view.Placeholder = true
		view.Reason = reason

		return view, nil
	}

	view.Address = current
	view.Source = usecase.AddressSourceCurrent

	return view, nil
}

// Choose turns a category button press into the lesson search query.
func (srv *categoryService) Choose(ctx context.Context, ownerID uuid.UUID, address string, category string) (*entity.LessonQuery, error) {
	chosen := entity.Category(strings.TrimSpace(category))
	if chosen == "" {
		chosen = entity.DefaultCategory
	}
	if !chosen.IsValid() {
		return nil, domainerrors.ErrInvalidCategory.WithDetails(category)
	}

	origin, source, err := srv.storedAddress(ctx, ownerID, address)
	if err != nil {
		return nil, err
	}
	if source == usecase.AddressSourceUnset {
		return nil, domainerrors.ErrOriginUnset
	}

	srv.log(ctx).Debug("Category chosen",
		slog.String("category", chosen.String()),
		slog.String("address_source", string(source)),
	)

	return &entity.LessonQuery{Address: origin, Category: chosen}, nil
}

// storedAddress applies the explicit then selected part of the address chain.
func (srv *categoryService) storedAddress(ctx context.Context, ownerID uuid.UUID, explicit string) (string, usecase.AddressSource, error) {
	if address := strings.TrimSpace(explicit); address != "" {
		return address, usecase.AddressSourceExplicit, nil
	}

	selected, err := loadString(ctx, srv.store, ownerID, repository.KeySelectedAddress)
	if err != nil {
		return "", "", err
	}
	if selected != "" {
		return selected, usecase.AddressSourceSelected, nil
	}

	return "", usecase.AddressSourceUnset, nil
}

// currentAddress reverse geocodes the client's position. A non-empty reason
// is the error code explaining why no address could be produced.
func (srv *categoryService) currentAddress(ctx context.Context, position *entity.PositionReport) (address string, reason string) {
	if position == nil {
		return "", domainerrors.ErrLocationUnavailable.ErrorCode()
	}

	if err := positionError(*position); err != nil {
		return "", errorCode(err)
	}

	resolved, err := srv.geocoder.ReverseGeocode(ctx, position.Coordinate)
	if err != nil {
		srv.log(ctx).Warn("Reverse geocoding for category screen failed", slog.Any("error", err))

		return "", errorCode(geocodeError(err))
	}

	return resolved.Canonical(entity.UnknownLocationMarker), ""
}

func errorCode(err error) string {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.ErrorCode()
	}

	return domainerrors.ErrInternalError.ErrorCode()
}
