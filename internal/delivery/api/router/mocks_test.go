package router

import (
	"context"

	"lessonradar/internal/domain/entity"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockSessionUsecase struct{ mock.Mock }

func (m *mockSessionUsecase) Signup(ctx context.Context, userID, password string) (*entity.Session, error) {
	args := m.Called(ctx, userID, password)

	return resultOrNil[entity.Session](args, 0), args.Error(1)
}

func (m *mockSessionUsecase) Authorize(ctx context.Context, ownerID, sessionID uuid.UUID) error {
	return m.Called(ctx, ownerID, sessionID).Error(0)
}

func (m *mockSessionUsecase) ChangePassword(ctx context.Context, ownerID uuid.UUID, current, next string) error {
	return m.Called(ctx, ownerID, current, next).Error(0)
}

func (m *mockSessionUsecase) Login(ctx context.Context, userID, password string) (*usecase.LoginResult, error) {
	args := m.Called(ctx, userID, password)

	return resultOrNil[usecase.LoginResult](args, 0), args.Error(1)
}

func (m *mockSessionUsecase) KakaoLogin(ctx context.Context, accessToken string) (*usecase.LoginResult, error) {
	args := m.Called(ctx, accessToken)

	return resultOrNil[usecase.LoginResult](args, 0), args.Error(1)
}

func (m *mockSessionUsecase) Logout(ctx context.Context, ownerID uuid.UUID) error {
	return m.Called(ctx, ownerID).Error(0)
}

func (m *mockSessionUsecase) Profile(ctx context.Context, ownerID uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, ownerID)

	return resultOrNil[entity.Session](args, 0), args.Error(1)
}

type mockAddressUsecase struct{ mock.Mock }

func (m *mockAddressUsecase) book(args mock.Arguments) (*entity.AddressBook, error) {
	return resultOrNil[entity.AddressBook](args, 0), args.Error(1)
}

func (m *mockAddressUsecase) List(ctx context.Context, ownerID uuid.UUID) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID))
}

func (m *mockAddressUsecase) AddFromText(ctx context.Context, ownerID uuid.UUID, text string) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID, text))
}

func (m *mockAddressUsecase) AddCurrentLocation(ctx context.Context, ownerID uuid.UUID, report entity.PositionReport) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID, report))
}

func (m *mockAddressUsecase) Edit(ctx context.Context, ownerID uuid.UUID, index int, text string) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID, index, text))
}

func (m *mockAddressUsecase) Remove(ctx context.Context, ownerID uuid.UUID, index int, confirmed bool) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID, index, confirmed))
}

func (m *mockAddressUsecase) SetEditMode(ctx context.Context, ownerID uuid.UUID, on bool) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID, on))
}

func (m *mockAddressUsecase) Select(ctx context.Context, ownerID uuid.UUID, address string) (*entity.AddressBook, error) {
	return m.book(m.Called(ctx, ownerID, address))
}

func (m *mockAddressUsecase) Selected(ctx context.Context, ownerID uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID)

	return args.String(0), args.Error(1)
}

type mockCategoryUsecase struct{ mock.Mock }

func (m *mockCategoryUsecase) Categories() []usecase.CategoryOption {
	return m.Called().Get(0).([]usecase.CategoryOption)
}

func (m *mockCategoryUsecase) Resolve(ctx context.Context, ownerID uuid.UUID, explicitAddress string, position *entity.PositionReport) (*usecase.CategoryView, error) {
	args := m.Called(ctx, ownerID, explicitAddress, position)

	return resultOrNil[usecase.CategoryView](args, 0), args.Error(1)
}

func (m *mockCategoryUsecase) Choose(ctx context.Context, ownerID uuid.UUID, address string, category string) (*entity.LessonQuery, error) {
	args := m.Called(ctx, ownerID, address, category)

	return resultOrNil[entity.LessonQuery](args, 0), args.Error(1)
}

type mockSearchUsecase struct{ mock.Mock }

func (m *mockSearchUsecase) session(args mock.Arguments) (*entity.SearchSession, error) {
	return resultOrNil[entity.SearchSession](args, 0), args.Error(1)
}

func (m *mockSearchUsecase) Run(ctx context.Context, ownerID uuid.UUID, query entity.LessonQuery) (*entity.SearchSession, error) {
	return m.session(m.Called(ctx, ownerID, query))
}

func (m *mockSearchUsecase) Start(ctx context.Context, ownerID uuid.UUID, query entity.LessonQuery) (*entity.SearchSession, error) {
	return m.session(m.Called(ctx, ownerID, query))
}

func (m *mockSearchUsecase) Get(ctx context.Context, ownerID, sessionID uuid.UUID) (*entity.SearchSession, error) {
	return m.session(m.Called(ctx, ownerID, sessionID))
}

func (m *mockSearchUsecase) Discard(ctx context.Context, ownerID, sessionID uuid.UUID) error {
	return m.Called(ctx, ownerID, sessionID).Error(0)
}

func (m *mockSearchUsecase) SortNearest(ctx context.Context, ownerID, sessionID uuid.UUID) (*entity.SearchSession, error) {
	return m.session(m.Called(ctx, ownerID, sessionID))
}

func (m *mockSearchUsecase) Lesson(ctx context.Context, ownerID, sessionID uuid.UUID, lessonID entity.LessonID) (*entity.Lesson, error) {
	args := m.Called(ctx, ownerID, sessionID, lessonID)

	return resultOrNil[entity.Lesson](args, 0), args.Error(1)
}

type mockDetailUsecase struct{ mock.Mock }

func (m *mockDetailUsecase) Project(ctx context.Context, lesson *entity.Lesson) (*usecase.LessonDetail, error) {
	args := m.Called(ctx, lesson)

	return resultOrNil[usecase.LessonDetail](args, 0), args.Error(1)
}

func (m *mockDetailUsecase) ShareQR(ctx context.Context, lesson *entity.Lesson) ([]byte, error) {
	args := m.Called(ctx, lesson)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

type mockCartUsecase struct{ mock.Mock }

func (m *mockCartUsecase) view(args mock.Arguments) (*usecase.CartView, error) {
	return resultOrNil[usecase.CartView](args, 0), args.Error(1)
}

func (m *mockCartUsecase) View(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID))
}

func (m *mockCartUsecase) Add(ctx context.Context, ownerID uuid.UUID, lesson entity.Lesson) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID, lesson))
}

func (m *mockCartUsecase) ToggleSelect(ctx context.Context, ownerID uuid.UUID, id entity.LessonID) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID, id))
}

func (m *mockCartUsecase) SelectAll(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID))
}

func (m *mockCartUsecase) DeselectAll(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID))
}

func (m *mockCartUsecase) ToggleSelectAll(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID))
}

func (m *mockCartUsecase) RemoveSelected(ctx context.Context, ownerID uuid.UUID) (*usecase.CartView, error) {
	return m.view(m.Called(ctx, ownerID))
}

func (m *mockCartUsecase) Checkout(ctx context.Context, ownerID uuid.UUID) (*usecase.CheckoutResult, error) {
	args := m.Called(ctx, ownerID)

	return resultOrNil[usecase.CheckoutResult](args, 0), args.Error(1)
}

type mockCheckoutHistory struct{ mock.Mock }

func (m *mockCheckoutHistory) Record(ctx context.Context, event *service.CartCheckoutEvent) (bool, error) {
	args := m.Called(ctx, event)

	return args.Bool(0), args.Error(1)
}

func (m *mockCheckoutHistory) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Checkout, error) {
	args := m.Called(ctx, ownerID)
	history, _ := args.Get(0).([]entity.Checkout)

	return history, args.Error(1)
}

func resultOrNil[T any](args mock.Arguments, index int) *T {
	v, _ := args.Get(index).(*T)

	return v
}
