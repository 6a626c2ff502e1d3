package handler

import (
	"net/http"

	"lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/response"
	"lessonradar/internal/domain/entity"
	"lessonradar/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CategoryHandlerParams holds dependencies for CategoryHandler, injected by Fx.
type CategoryHandlerParams struct {
	fx.In

	CategoryUC usecase.CategoryUsecase
}

// CategoryHandler serves the category screen.
type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
}

// NewCategoryHandler is the constructor for CategoryHandler
func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{categoryUC: params.CategoryUC}
}

// ResolveCategoryRequest is the category screen query. Status carries the
// browser geolocation outcome and is omitted when the client did not ask.
type ResolveCategoryRequest struct {
	Address string  `query:"address"`
	Status  string  `query:"status" validate:"omitempty,oneof=granted permission_denied unavailable timeout unsupported"`
	Lat     float64 `query:"lat" validate:"latitude"`
	Lng     float64 `query:"lng" validate:"longitude"`
}

// ChooseCategoryRequest turns a category button into a lesson query.
type ChooseCategoryRequest struct {
	Address  string `json:"address"`
	Category string `json:"category"`
}

// Resolve renders the address line and the category buttons.
func (h *CategoryHandler) Resolve(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	var req ResolveCategoryRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var position *entity.PositionReport
	if req.Status != "" {
		position = &entity.PositionReport{
			Status:     entity.PositionStatus(req.Status),
			Coordinate: entity.Coordinate{Lat: req.Lat, Lng: req.Lng},
		}
	}

	view, err := h.categoryUC.Resolve(c.Request().Context(), owner, req.Address, position)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// Choose validates the category and returns the query for the lesson search.
func (h *CategoryHandler) Choose(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	var req ChooseCategoryRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	query, err := h.categoryUC.Choose(c.Request().Context(), owner, req.Address, req.Category)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, query)
}
