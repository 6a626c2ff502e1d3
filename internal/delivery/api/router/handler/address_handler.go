package handler

import (
	"net/http"

	"lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/response"
	"lessonradar/internal/domain/entity"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AddressHandlerParams holds dependencies for AddressHandler, injected by Fx.
type AddressHandlerParams struct {
	fx.In

	AddressUC usecase.AddressBookUsecase
}

// AddressHandler serves the owner's address book.
type AddressHandler struct {
	addressUC usecase.AddressBookUsecase
}

// NewAddressHandler is the constructor for AddressHandler
func NewAddressHandler(params AddressHandlerParams) *AddressHandler {
	return &AddressHandler{addressUC: params.AddressUC}
}

// AddressRequest carries free address text. Emptiness is reported by the use case.
type AddressRequest struct {
	Address string `json:"address"`
}

// EditAddressRequest replaces the address at a position.
type EditAddressRequest struct {
	Index   int    `param:"index" validate:"min=0"`
	Address string `json:"address"`
}

// RemoveAddressRequest deletes the address at a position.
type RemoveAddressRequest struct {
	Index     int  `param:"index" validate:"min=0"`
	Confirmed bool `query:"confirmed"`
}

// EditModeRequest toggles edit mode.
type EditModeRequest struct {
	On *bool `json:"on" validate:"required"`
}

// PositionRequest is the outcome of the browser geolocation request.
type PositionRequest struct {
	Status string  `json:"status" validate:"required,oneof=granted permission_denied unavailable timeout unsupported"`
	Lat    float64 `json:"lat" validate:"latitude"`
	Lng    float64 `json:"lng" validate:"longitude"`
}

func (r PositionRequest) report() entity.PositionReport {
	return entity.PositionReport{
		Status:     entity.PositionStatus(r.Status),
		Coordinate: entity.Coordinate{Lat: r.Lat, Lng: r.Lng},
	}
}

// List returns the address book.
func (h *AddressHandler) List(c echo.Context) error {
	return h.respond(c, http.StatusOK, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.List(c.Request().Context(), owner)
	})
}

// Add geocodes and saves a typed address.
func (h *AddressHandler) Add(c echo.Context) error {
	var req AddressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusCreated, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.AddFromText(c.Request().Context(), owner, req.Address)
	})
}

// AddCurrentLocation saves the reverse geocoded client position.
func (h *AddressHandler) AddCurrentLocation(c echo.Context) error {
	var req PositionRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusCreated, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.AddCurrentLocation(c.Request().Context(), owner, req.report())
	})
}

// Edit replaces a saved address.
func (h *AddressHandler) Edit(c echo.Context) error {
	var req EditAddressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusOK, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.Edit(c.Request().Context(), owner, req.Index, req.Address)
	})
}

// Remove deletes a saved address. The caller must pass confirmed=true.
func (h *AddressHandler) Remove(c echo.Context) error {
	var req RemoveAddressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusOK, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.Remove(c.Request().Context(), owner, req.Index, req.Confirmed)
	})
}

// SetEditMode switches edit mode on or off.
func (h *AddressHandler) SetEditMode(c echo.Context) error {
	var req EditModeRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusOK, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.SetEditMode(c.Request().Context(), owner, *req.On)
	})
}

// Select makes a saved address the search origin.
func (h *AddressHandler) Select(c echo.Context) error {
	var req AddressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusOK, func(owner uuid.UUID) (*entity.AddressBook, error) {
		return h.addressUC.Select(c.Request().Context(), owner, req.Address)
	})
}

// Selected returns the selected address, empty when none is set.
func (h *AddressHandler) Selected(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	selected, err := h.addressUC.Selected(c.Request().Context(), owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"selected": selected})
}

func (h *AddressHandler) respond(c echo.Context, status int, call func(owner uuid.UUID) (*entity.AddressBook, error)) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	book, err := call(owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, status, book)
}
