package handler

import (
	"context"
	"net/http"

	"lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/response"
	"lessonradar/internal/domain/entity"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC     usecase.CartUsecase
	CheckoutUC usecase.CheckoutHistoryUsecase
}

// CartHandler serves the owner's cart and checkout history.
type CartHandler struct {
	cartUC     usecase.CartUsecase
	checkoutUC usecase.CheckoutHistoryUsecase
}

// NewCartHandler is the constructor for CartHandler
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC:     params.CartUC,
		checkoutUC: params.CheckoutUC,
	}
}

// AddToCartRequest carries the lesson record exactly as the search returned it.
type AddToCartRequest struct {
	Lesson *entity.Lesson `json:"lesson" validate:"required"`
}

// View returns the cart with its selection.
func (h *CartHandler) View(c echo.Context) error {
	return h.respond(c, http.StatusOK, h.cartUC.View)
}

// Add puts a lesson into the cart.
func (h *CartHandler) Add(c echo.Context) error {
	var req AddToCartRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	return h.respond(c, http.StatusCreated, func(ctx context.Context, owner uuid.UUID) (*usecase.CartView, error) {
		return h.cartUC.Add(ctx, owner, *req.Lesson)
	})
}

// ToggleSelect flips the selection of one entry.
func (h *CartHandler) ToggleSelect(c echo.Context) error {
	id, ok, err := lessonIDParam(c, "id")
	if !ok {
		return err
	}

	return h.respond(c, http.StatusOK, func(ctx context.Context, owner uuid.UUID) (*usecase.CartView, error) {
		return h.cartUC.ToggleSelect(ctx, owner, id)
	})
}

// SelectAll selects every entry.
func (h *CartHandler) SelectAll(c echo.Context) error {
	return h.respond(c, http.StatusOK, h.cartUC.SelectAll)
}

// DeselectAll clears the selection.
func (h *CartHandler) DeselectAll(c echo.Context) error {
	return h.respond(c, http.StatusOK, h.cartUC.DeselectAll)
}

// ToggleAll is the "select all" checkbox.
func (h *CartHandler) ToggleAll(c echo.Context) error {
	return h.respond(c, http.StatusOK, h.cartUC.ToggleSelectAll)
}

// RemoveSelected deletes the selected entries.
func (h *CartHandler) RemoveSelected(c echo.Context) error {
	return h.respond(c, http.StatusOK, h.cartUC.RemoveSelected)
}

// Checkout publishes the selected entries.
func (h *CartHandler) Checkout(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	result, err := h.cartUC.Checkout(c.Request().Context(), owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusAccepted, result)
}

// Checkouts lists the checkouts recorded by the worker, newest first.
func (h *CartHandler) Checkouts(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	history, err := h.checkoutUC.List(c.Request().Context(), owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, history)
}

func (h *CartHandler) respond(c echo.Context, status int, call func(ctx context.Context, owner uuid.UUID) (*usecase.CartView, error)) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	view, err := call(c.Request().Context(), owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, status, view)
}
