package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lessonradar/config"
	apimiddleware "lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/router/handler"
	"lessonradar/internal/delivery/api/validator"
	"lessonradar/internal/delivery/middleware"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"
	"lessonradar/internal/infra/auth"
	"lessonradar/internal/infra/persistence/memory"
	"lessonradar/internal/usecase"
	"lessonradar/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	echo      *echo.Echo
	token     string
	owner     uuid.UUID
	sessionID uuid.UUID
	session   *mockSessionUsecase
	address   *mockAddressUsecase
	category  *mockCategoryUsecase
	search    *mockSearchUsecase
	detail    *mockDetailUsecase
	cart      *mockCartUsecase
	history   *mockCheckoutHistory
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func newTokenService(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "router-test-secret"
	cfg.SecretKey.AccessTTL = time.Hour
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return tokens
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	tokens := newTokenService(t)
	f := &apiFixture{
		owner:     entity.OwnerIDFor(entity.ProviderTypeLocal, "golfer"),
		sessionID: uuid.New(),
		session:   &mockSessionUsecase{},
		address:   &mockAddressUsecase{},
		category:  &mockCategoryUsecase{},
		search:    &mockSearchUsecase{},
		detail:    &mockDetailUsecase{},
		cart:      &mockCartUsecase{},
		history:   &mockCheckoutHistory{},
	}

	var err error
	f.token, _, err = tokens.GenerateAccessToken(f.owner, f.sessionID, entity.ProviderTypeLocal)
	require.NoError(t, err)
	f.session.On("Authorize", mock.Anything, f.owner, f.sessionID).Return(nil).Maybe()

	f.echo = f.newEcho(tokens, f.session)

	t.Cleanup(func() {
		f.session.AssertExpectations(t)
		f.address.AssertExpectations(t)
		f.category.AssertExpectations(t)
		f.search.AssertExpectations(t)
		f.detail.AssertExpectations(t)
		f.cart.AssertExpectations(t)
		f.history.AssertExpectations(t)
	})

	return f
}

func (f *apiFixture) newEcho(tokens service.TokenService, sessions usecase.SessionUsecase) *echo.Echo {
	logger := slog.New(slog.DiscardHandler)

	e := echo.New()
	e.Use(middleware.NewRequestIDMiddleware(logger).Process)
	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	NewRouter(RouterParams{
		SessionHandler:  handler.NewSessionHandler(handler.SessionHandlerParams{SessionUC: sessions}),
		AddressHandler:  handler.NewAddressHandler(handler.AddressHandlerParams{AddressUC: f.address}),
		CategoryHandler: handler.NewCategoryHandler(handler.CategoryHandlerParams{CategoryUC: f.category}),
		LessonHandler:   handler.NewLessonHandler(handler.LessonHandlerParams{SearchUC: f.search, DetailUC: f.detail}),
		CartHandler:     handler.NewCartHandler(handler.CartHandlerParams{CartUC: f.cart, CheckoutUC: f.history}),
		AuthMiddleware:  apimiddleware.NewAuthMiddleware(tokens, sessions, logger),
	}).RegisterRoutes(e)

	return e
}

func (f *apiFixture) do(t *testing.T, method, target, body string, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	token := ""
	if authed {
		token = f.token
	}

	return f.doWithToken(t, method, target, body, token)
}

func (f *apiFixture) doWithToken(t *testing.T, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func TestHealthCheck(t *testing.T) {
	f := newAPIFixture(t)

	rec, env := f.do(t, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, env.Meta.RequestID)
	assert.Equal(t, env.Meta.RequestID, rec.Header().Get("X-Request-Id"))
}

func TestAuthentication(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing header", header: "", code: "MISSING_TOKEN"},
		{name: "not bearer", header: "Basic Z29sZmVyOnB3", code: "INVALID_TOKEN_FORMAT"},
		{name: "empty bearer", header: "Bearer ", code: "INVALID_TOKEN_FORMAT"},
		{name: "garbage token", header: "Bearer not-a-jwt", code: "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			f.echo.ServeHTTP(rec, req)

			var env envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestSessionRoutes(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		f := newAPIFixture(t)
		result := &usecase.LoginResult{AccessToken: "token", Session: &entity.Session{OwnerID: f.owner, LoggedIn: true, UserID: "golfer"}}
		f.session.On("Login", mock.Anything, "golfer", "pw").Return(result, nil).Once()

		rec, env := f.do(t, http.MethodPost, "/auth/login", `{"user_id":"golfer","password":"pw"}`, false)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got usecase.LoginResult
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "token", got.AccessToken)
		assert.Equal(t, "golfer", got.Session.UserID)
	})

	t.Run("login with a wrong password", func(t *testing.T) {
		f := newAPIFixture(t)
		f.session.On("Login", mock.Anything, "golfer", "wrong").Return(nil, domainerrors.ErrInvalidCredentials).Once()

		rec, env := f.do(t, http.MethodPost, "/auth/login", `{"user_id":"golfer","password":"wrong"}`, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	})

	t.Run("signup", func(t *testing.T) {
		f := newAPIFixture(t)
		f.session.On("Signup", mock.Anything, "golfer", "fairway-2024").
			Return(&entity.Session{OwnerID: f.owner, UserID: "golfer"}, nil).Once()

		rec, env := f.do(t, http.MethodPost, "/auth/signup",
			`{"user_id":"golfer","password":"fairway-2024","confirm_password":"fairway-2024"}`, false)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got entity.Session
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "golfer", got.UserID)
	})

	t.Run("signup with mismatched confirmation", func(t *testing.T) {
		f := newAPIFixture(t)

		rec, env := f.do(t, http.MethodPost, "/auth/signup",
			`{"user_id":"golfer","password":"fairway-2024","confirm_password":"fairway-2025"}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.JSONEq(t, `[{"field":"confirm_password","rule":"eqfield","param":"Password"}]`, string(env.Error.Details))
	})

	t.Run("signup with a taken id", func(t *testing.T) {
		f := newAPIFixture(t)
		f.session.On("Signup", mock.Anything, "golfer", "fairway-2024").Return(nil, domainerrors.ErrUserIDTaken).Once()

		rec, env := f.do(t, http.MethodPost, "/auth/signup",
			`{"user_id":"golfer","password":"fairway-2024","confirm_password":"fairway-2024"}`, false)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "USER_ID_TAKEN", env.Error.Code)
	})

	t.Run("change password", func(t *testing.T) {
		f := newAPIFixture(t)
		f.session.On("ChangePassword", mock.Anything, f.owner, "fairway-2024", "green-side-99").Return(nil).Once()

		rec, _ := f.do(t, http.MethodPut, "/api/v1/session/password",
			`{"current_password":"fairway-2024","new_password":"green-side-99"}`, true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("login reports missing fields", func(t *testing.T) {
		f := newAPIFixture(t)

		rec, env := f.do(t, http.MethodPost, "/auth/login", `{"user_id":"golfer"}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.JSONEq(t, `[{"field":"password","rule":"required"}]`, string(env.Error.Details))
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newAPIFixture(t)

		rec, env := f.do(t, http.MethodPost, "/auth/kakao", `{"access_token":`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("kakao login failure", func(t *testing.T) {
		f := newAPIFixture(t)
		f.session.On("KakaoLogin", mock.Anything, "kakao-token").Return(nil, domainerrors.ErrSocialLoginFailed).Once()

		rec, env := f.do(t, http.MethodPost, "/auth/kakao", `{"access_token":"kakao-token"}`, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "SOCIAL_LOGIN_FAILED", env.Error.Code)
	})

	t.Run("profile and logout use the token owner", func(t *testing.T) {
		f := newAPIFixture(t)
		f.session.On("Profile", mock.Anything, f.owner).Return(&entity.Session{OwnerID: f.owner, LoggedIn: true}, nil).Once()
		f.session.On("Logout", mock.Anything, f.owner).Return(nil).Once()

		rec, _ := f.do(t, http.MethodGet, "/api/v1/session", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = f.do(t, http.MethodPost, "/api/v1/session/logout", "", true)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAddressRoutes(t *testing.T) {
	book := &entity.AddressBook{Addresses: []string{"서울 중구 세종대로 110"}}

	t.Run("add duplicate", func(t *testing.T) {
		f := newAPIFixture(t)
		f.address.On("AddFromText", mock.Anything, f.owner, "세종대로 110").Return(nil, domainerrors.ErrAddressDuplicate).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/addresses", `{"address":"세종대로 110"}`, true)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ADDRESS_DUPLICATE", env.Error.Code)
	})

	t.Run("edit binds index and text", func(t *testing.T) {
		f := newAPIFixture(t)
		f.address.On("Edit", mock.Anything, f.owner, 2, "new text").Return(book, nil).Once()

		rec, _ := f.do(t, http.MethodPut, "/api/v1/addresses/2", `{"address":"new text"}`, true)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("edit rejects a negative index", func(t *testing.T) {
		f := newAPIFixture(t)

		rec, env := f.do(t, http.MethodPut, "/api/v1/addresses/-1", `{"address":"x"}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})

	t.Run("remove passes confirmation", func(t *testing.T) {
		f := newAPIFixture(t)
		f.address.On("Remove", mock.Anything, f.owner, 0, true).Return(&entity.AddressBook{}, nil).Once()
		f.address.On("Remove", mock.Anything, f.owner, 0, false).Return(nil, domainerrors.ErrConfirmationRequired).Once()

		rec, _ := f.do(t, http.MethodDelete, "/api/v1/addresses/0?confirmed=true", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, env := f.do(t, http.MethodDelete, "/api/v1/addresses/0", "", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "CONFIRMATION_REQUIRED", env.Error.Code)
	})

	t.Run("edit mode requires a flag", func(t *testing.T) {
		f := newAPIFixture(t)
		f.address.On("SetEditMode", mock.Anything, f.owner, false).Return(&entity.AddressBook{}, nil).Once()

		rec, _ := f.do(t, http.MethodPut, "/api/v1/addresses/edit-mode", `{}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = f.do(t, http.MethodPut, "/api/v1/addresses/edit-mode", `{"on":false}`, true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("current location", func(t *testing.T) {
		f := newAPIFixture(t)
		report := entity.PositionReport{Status: entity.PositionGranted, Coordinate: entity.Coordinate{Lat: 37.5665, Lng: 126.978}}
		f.address.On("AddCurrentLocation", mock.Anything, f.owner, report).Return(book, nil).Once()

		rec, _ := f.do(t, http.MethodPost, "/api/v1/addresses/current-location", `{"status":"granted","lat":37.5665,"lng":126.978}`, true)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec, _ = f.do(t, http.MethodPost, "/api/v1/addresses/current-location", `{"status":"blocked"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("select and selected", func(t *testing.T) {
		f := newAPIFixture(t)
		f.address.On("Select", mock.Anything, f.owner, book.Addresses[0]).Return(&entity.AddressBook{Addresses: book.Addresses, Selected: book.Addresses[0]}, nil).Once()
		f.address.On("Selected", mock.Anything, f.owner).Return(book.Addresses[0], nil).Once()

		rec, _ := f.do(t, http.MethodPost, "/api/v1/addresses/select", `{"address":"서울 중구 세종대로 110"}`, true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, env := f.do(t, http.MethodGet, "/api/v1/addresses/selected", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"selected":"서울 중구 세종대로 110"}`, string(env.Data))
	})
}

func TestCategoryRoutes(t *testing.T) {
	t.Run("resolve without position", func(t *testing.T) {
		f := newAPIFixture(t)
		view := &usecase.CategoryView{Address: "selected", Source: usecase.AddressSourceSelected}
		f.category.On("Resolve", mock.Anything, f.owner, "", (*entity.PositionReport)(nil)).Return(view, nil).Once()

		rec, _ := f.do(t, http.MethodGet, "/api/v1/categories", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("resolve with denied position", func(t *testing.T) {
		f := newAPIFixture(t)
		position := &entity.PositionReport{Status: entity.PositionDenied}
		view := &usecase.CategoryView{Address: usecase.LocationUnavailablePlaceholder, Placeholder: true}
		f.category.On("Resolve", mock.Anything, f.owner, "", position).Return(view, nil).Once()

		rec, env := f.do(t, http.MethodGet, "/api/v1/categories?status=permission_denied", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got usecase.CategoryView
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, got.Placeholder)
	})

	t.Run("choose unknown category", func(t *testing.T) {
		f := newAPIFixture(t)
		f.category.On("Choose", mock.Anything, f.owner, "", "pro").Return(nil, domainerrors.ErrInvalidCategory).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/categories/choose", `{"category":"pro"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_CATEGORY", env.Error.Code)
	})
}

func TestLessonRoutes(t *testing.T) {
	sessionID := uuid.New()
	query := entity.LessonQuery{Address: "세종대로 110", Category: entity.CategoryExpert}

	t.Run("start returns the pending session", func(t *testing.T) {
		f := newAPIFixture(t)
		pending := &entity.SearchSession{ID: sessionID, State: entity.SearchResolvingOrigin}
		f.search.On("Start", mock.Anything, f.owner, query).Return(pending, nil).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/lessons/search", `{"address":"세종대로 110","category":"expert"}`, true)
		assert.Equal(t, http.StatusAccepted, rec.Code)

		var got entity.SearchSession
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, sessionID, got.ID)
	})

	t.Run("wait runs to completion", func(t *testing.T) {
		f := newAPIFixture(t)
		failed := &entity.SearchSession{ID: sessionID, State: entity.SearchFailed}
		f.search.On("Run", mock.Anything, f.owner, query).Return(failed, domainerrors.ErrAddressNotFound).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/lessons/search", `{"address":"세종대로 110","category":"expert","wait":true}`, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ADDRESS_NOT_FOUND", env.Error.Code)
	})

	t.Run("session routes", func(t *testing.T) {
		f := newAPIFixture(t)
		ready := &entity.SearchSession{ID: sessionID, State: entity.SearchReady}
		f.search.On("Get", mock.Anything, f.owner, sessionID).Return(ready, nil).Once()
		f.search.On("SortNearest", mock.Anything, f.owner, sessionID).Return(ready, nil).Once()
		f.search.On("Lesson", mock.Anything, f.owner, sessionID, entity.StringLessonID("26338954")).
			Return(&entity.Lesson{ID: entity.StringLessonID("26338954"), PlaceName: "Green Range"}, nil).Once()
		f.search.On("Lesson", mock.Anything, f.owner, sessionID, entity.NumericLessonID(3)).
			Return(nil, domainerrors.ErrNoLessonInfo).Once()
		f.search.On("Discard", mock.Anything, f.owner, sessionID).Return(nil).Once()

		base := "/api/v1/lessons/search/" + sessionID.String()

		rec, _ := f.do(t, http.MethodGet, base, "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = f.do(t, http.MethodPost, base+"/sort", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, env := f.do(t, http.MethodGet, base+"/lessons/%2226338954%22", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"place_name":"Green Range"`)

		rec, env = f.do(t, http.MethodGet, base+"/lessons/3", "", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NO_LESSON_INFO", env.Error.Code)

		rec, _ = f.do(t, http.MethodDelete, base, "", true)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("session id must be a uuid", func(t *testing.T) {
		f := newAPIFixture(t)

		rec, env := f.do(t, http.MethodGet, "/api/v1/lessons/search/latest", "", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("detail without a record", func(t *testing.T) {
		f := newAPIFixture(t)
		f.detail.On("Project", mock.Anything, (*entity.Lesson)(nil)).Return(nil, domainerrors.ErrNoLessonInfo).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/lessons/detail", `{}`, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NO_LESSON_INFO", env.Error.Code)
	})

	t.Run("share qr is a png", func(t *testing.T) {
		f := newAPIFixture(t)
		png := []byte("\x89PNG")
		f.detail.On("ShareQR", mock.Anything, mock.MatchedBy(func(l *entity.Lesson) bool {
			return l != nil && l.ID == entity.NumericLessonID(1)
		})).Return(png, nil).Once()

		rec, _ := f.do(t, http.MethodPost, "/api/v1/lessons/detail/share-qr", `{"lesson":{"id":1,"place_name":"Range"}}`, true)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, png, rec.Body.Bytes())
	})
}

func TestCartRoutes(t *testing.T) {
	view := &usecase.CartView{}

	t.Run("add requires a lesson", func(t *testing.T) {
		f := newAPIFixture(t)

		rec, env := f.do(t, http.MethodPost, "/api/v1/cart", `{}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})

	t.Run("add duplicate", func(t *testing.T) {
		f := newAPIFixture(t)
		f.cart.On("Add", mock.Anything, f.owner, mock.MatchedBy(func(l entity.Lesson) bool {
			return l.ID == entity.StringLessonID("abc")
		})).Return(nil, domainerrors.ErrCartDuplicate).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/cart", `{"lesson":{"id":"abc","place_name":"Range"}}`, true)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "CART_DUPLICATE", env.Error.Code)
	})

	t.Run("toggle keeps the id type", func(t *testing.T) {
		f := newAPIFixture(t)
		f.cart.On("ToggleSelect", mock.Anything, f.owner, entity.NumericLessonID(7)).Return(view, nil).Once()
		f.cart.On("ToggleSelect", mock.Anything, f.owner, entity.StringLessonID("7")).Return(view, nil).Once()

		rec, _ := f.do(t, http.MethodPost, "/api/v1/cart/select/7", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = f.do(t, http.MethodPost, "/api/v1/cart/select/%227%22", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bulk selection routes", func(t *testing.T) {
		f := newAPIFixture(t)
		for _, method := range []string{"View", "SelectAll", "DeselectAll", "ToggleSelectAll", "RemoveSelected"} {
			f.cart.On(method, mock.Anything, f.owner).Return(view, nil).Once()
		}

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/cart"},
			{http.MethodPost, "/api/v1/cart/select-all"},
			{http.MethodPost, "/api/v1/cart/deselect-all"},
			{http.MethodPost, "/api/v1/cart/toggle-all"},
			{http.MethodPost, "/api/v1/cart/remove-selected"},
		} {
			rec, _ := f.do(t, tc.method, tc.path, "", true)
			assert.Equal(t, http.StatusOK, rec.Code, tc.path)
		}
	})

	t.Run("checkout", func(t *testing.T) {
		f := newAPIFixture(t)
		f.cart.On("Checkout", mock.Anything, f.owner).Return(&usecase.CheckoutResult{EventID: "evt-1"}, nil).Once()

		rec, env := f.do(t, http.MethodPost, "/api/v1/cart/checkout", "", true)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"event_id":"evt-1","lessons":null}`, string(env.Data))
	})
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	f := newAPIFixture(t)
	tokens := newTokenService(t)
	sessions := impl.NewSessionService(memory.NewDocumentStore(), tokens, auth.NewBcryptHasher(), nil, slog.New(slog.DiscardHandler))
	f.echo = f.newEcho(tokens, sessions)
	f.cart.On("View", mock.Anything, f.owner).Return(&usecase.CartView{}, nil).Once()

	login := func(password string) (int, string) {
		rec, env := f.do(t, http.MethodPost, "/auth/login", `{"user_id":"golfer","password":"`+password+`"}`, false)
		if rec.Code != http.StatusOK {
			return rec.Code, ""
		}
		var result usecase.LoginResult
		require.NoError(t, json.Unmarshal(env.Data, &result))

		return rec.Code, result.AccessToken
	}

	rec, _ := f.do(t, http.MethodPost, "/auth/signup",
		`{"user_id":"golfer","password":"fairway-2024","confirm_password":"fairway-2024"}`, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	code, _ := login("totally-wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, token := login("fairway-2024")
	require.Equal(t, http.StatusOK, code)

	rec, _ = f.doWithToken(t, http.MethodGet, "/api/v1/cart", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.doWithToken(t, http.MethodPost, "/api/v1/session/logout", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, env := f.doWithToken(t, http.MethodGet, "/api/v1/cart", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_REVOKED", env.Error.Code)

	_, fresh := login("fairway-2024")
	_, newer := login("fairway-2024")
	rec, env = f.doWithToken(t, http.MethodGet, "/api/v1/session", "", fresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a newer login ends the previous session")
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_REVOKED", env.Error.Code)

	rec, _ = f.doWithToken(t, http.MethodGet, "/api/v1/session", "", newer)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutHistoryRoute(t *testing.T) {
	f := newAPIFixture(t)
	history := []entity.Checkout{{EventID: "evt-2"}, {EventID: "evt-1"}}
	f.history.On("List", mock.Anything, f.owner).Return(history, nil).Once()

	rec, env := f.do(t, http.MethodGet, "/api/v1/checkouts", "", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []entity.Checkout
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "evt-2", got[0].EventID)
}

func TestServerErrorsHideDetails(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "storage failure", err: domainerrors.NewDatabaseExecuteError(errors.New("disk full"), "owner cart"), code: "DATABASE_EXECUTE_FAILED"},
		{name: "unexpected error", err: errors.New("boom"), code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.cart.On("View", mock.Anything, f.owner).Return(nil, tt.err).Once()

			rec, env := f.do(t, http.MethodGet, "/api/v1/cart", "", true)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Empty(t, env.Error.Details)
			assert.NotContains(t, rec.Body.String(), "disk full")
		})
	}
}
