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

// LessonHandlerParams holds dependencies for LessonHandler, injected by Fx.
type LessonHandlerParams struct {
	fx.In

	SearchUC usecase.LessonSearchUsecase
	DetailUC usecase.LessonDetailUsecase
}

// LessonHandler serves lesson searches and lesson details.
type LessonHandler struct {
	searchUC usecase.LessonSearchUsecase
	detailUC usecase.LessonDetailUsecase
}

// NewLessonHandler is the constructor for LessonHandler
func NewLessonHandler(params LessonHandlerParams) *LessonHandler {
	return &LessonHandler{
		searchUC: params.SearchUC,
		detailUC: params.DetailUC,
	}
}

// SearchRequest starts a lesson search. With Wait the response holds the
// finished session, otherwise the pending one.
type SearchRequest struct {
	Address  string `json:"address"`
	Category string `json:"category"`
	Wait     bool   `json:"wait"`
}

// DetailRequest wraps the lesson record to project.
type DetailRequest struct {
	Lesson *entity.Lesson `json:"lesson"`
}

// Search runs or starts a lesson search.
func (h *LessonHandler) Search(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	var req SearchRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	query := entity.LessonQuery{Address: req.Address, Category: entity.Category(req.Category)}
	ctx := c.Request().Context()

	if !req.Wait {
		session, err := h.searchUC.Start(ctx, owner, query)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusAccepted, session)
	}

	session, err := h.searchUC.Run(ctx, owner, query)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session)
}

// GetSearch polls a search session.
func (h *LessonHandler) GetSearch(c echo.Context) error {
	owner, sessionID, ok, err := h.sessionParams(c)
	if !ok {
		return err
	}

	session, err := h.searchUC.Get(c.Request().Context(), owner, sessionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session)
}

// DiscardSearch drops a search session.
func (h *LessonHandler) DiscardSearch(c echo.Context) error {
	owner, sessionID, ok, err := h.sessionParams(c)
	if !ok {
		return err
	}

	if err := h.searchUC.Discard(c.Request().Context(), owner, sessionID); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SortNearest reorders the session's lessons nearest first.
func (h *LessonHandler) SortNearest(c echo.Context) error {
	owner, sessionID, ok, err := h.sessionParams(c)
	if !ok {
		return err
	}

	session, err := h.searchUC.SortNearest(c.Request().Context(), owner, sessionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session)
}

// GetLesson returns one record of a session unchanged.
func (h *LessonHandler) GetLesson(c echo.Context) error {
	owner, sessionID, ok, err := h.sessionParams(c)
	if !ok {
		return err
	}

	lessonID, ok, err := lessonIDParam(c, "lessonId")
	if !ok {
		return err
	}

	lesson, err := h.searchUC.Lesson(c.Request().Context(), owner, sessionID, lessonID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, lesson)
}

// Detail projects a lesson record with display fallbacks.
func (h *LessonHandler) Detail(c echo.Context) error {
	var req DetailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	detail, err := h.detailUC.Project(c.Request().Context(), req.Lesson)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, detail)
}

// ShareQR renders a PNG QR code for a lesson.
func (h *LessonHandler) ShareQR(c echo.Context) error {
	var req DetailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	png, err := h.detailUC.ShareQR(c.Request().Context(), req.Lesson)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *LessonHandler) sessionParams(c echo.Context) (owner, sessionID uuid.UUID, ok bool, err error) {
	owner, found := middleware.GetOwnerID(c)
	if !found {
		return uuid.Nil, uuid.Nil, false, missingOwner(c)
	}

	sessionID, parseErr := uuid.Parse(c.Param("id"))
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, false, response.BindingError(c, "search session id must be a UUID")
	}

	return owner, sessionID, true, nil
}
