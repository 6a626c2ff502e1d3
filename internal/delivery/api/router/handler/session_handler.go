package handler

import (
	"net/http"

	"lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/response"
	"lessonradar/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
}

// SessionHandler serves signup, login, logout and the login profile.
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
}

// NewSessionHandler is the constructor for SessionHandler
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{
		sessionUC: params.SessionUC,
	}
}

// LoginRequest is the ID/password login form.
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the ID/password part of the signup form.
type SignupRequest struct {
	UserID          string `json:"user_id" validate:"required,max=64"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ChangePasswordRequest replaces the password of the logged-in account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// KakaoLoginRequest carries the access token issued by the Kakao SDK.
type KakaoLoginRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// Signup registers an ID/password account.
func (h *SessionHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	session, err := h.sessionUC.Signup(c.Request().Context(), req.UserID, req.Password)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, session)
}

// Login handles the ID/password login.
func (h *SessionHandler) Login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	result, err := h.sessionUC.Login(c.Request().Context(), req.UserID, req.Password)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// KakaoLogin handles the social login.
func (h *SessionHandler) KakaoLogin(c echo.Context) error {
	var req KakaoLoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	result, err := h.sessionUC.KakaoLogin(c.Request().Context(), req.AccessToken)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// Logout clears the login flag of the authenticated owner.
func (h *SessionHandler) Logout(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	if err := h.sessionUC.Logout(c.Request().Context(), owner); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Profile returns the persisted login state.
func (h *SessionHandler) Profile(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	session, err := h.sessionUC.Profile(c.Request().Context(), owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, session)
}

// ChangePassword replaces the password of the authenticated owner.
func (h *SessionHandler) ChangePassword(c echo.Context) error {
	owner, ok := middleware.GetOwnerID(c)
	if !ok {
		return missingOwner(c)
	}

	var req ChangePasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.sessionUC.ChangePassword(c.Request().Context(), owner, req.CurrentPassword, req.NewPassword); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
