package usecase_test

import (
	"context"
	"testing"
	"time"

	"fooddash/internal/domain/model"
	infraRepo "fooddash/internal/infra/repository"
	"fooddash/internal/portal"
	"fooddash/internal/repository"
	"fooddash/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

// BackendMock は外部APIの全エンドポイント。
type BackendMock struct{ mock.Mock }

func (m *BackendMock) CustomerLogin(ctx context.Context, cred model.Credentials) (model.Customer, error) {
	args := m.Called(ctx, cred)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *BackendMock) CustomerSignup(ctx context.Context, in model.CustomerSignup) (model.Customer, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *BackendMock) UpdateCustomer(ctx context.Context, customerID string, in model.Customer) (model.Customer, error) {
	args := m.Called(ctx, customerID, in)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *BackendMock) AddPaymentInfo(ctx context.Context, customerID string, p model.PaymentInfo) (model.Customer, error) {
	args := m.Called(ctx, customerID, p)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *BackendMock) DeletePaymentInfo(ctx context.Context, customerID string, p model.PaymentInfo) (model.Customer, error) {
	args := m.Called(ctx, customerID, p)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *BackendMock) DasherLogin(ctx context.Context, cred model.Credentials) (model.Dasher, error) {
	args := m.Called(ctx, cred)
	out, _ := args.Get(0).(model.Dasher)
	return out, args.Error(1)
}

func (m *BackendMock) DasherSignup(ctx context.Context, in model.DasherSignup) (model.Dasher, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(model.Dasher)
	return out, args.Error(1)
}

func (m *BackendMock) UpdateDasher(ctx context.Context, dasherID string, in model.Dasher) (model.Dasher, error) {
	args := m.Called(ctx, dasherID, in)
	out, _ := args.Get(0).(model.Dasher)
	return out, args.Error(1)
}

func (m *BackendMock) RestaurantLogin(ctx context.Context, cred model.Credentials) (model.Restaurant, error) {
	args := m.Called(ctx, cred)
	out, _ := args.Get(0).(model.Restaurant)
	return out, args.Error(1)
}

func (m *BackendMock) RestaurantSignup(ctx context.Context, in model.RestaurantSignup) (model.Restaurant, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(model.Restaurant)
	return out, args.Error(1)
}

func (m *BackendMock) UpdateRestaurant(ctx context.Context, restaurantID string, in model.Restaurant) (model.Restaurant, error) {
	args := m.Called(ctx, restaurantID, in)
	out, _ := args.Get(0).(model.Restaurant)
	return out, args.Error(1)
}

func (m *BackendMock) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Restaurant)
	return out, args.Error(1)
}

func (m *BackendMock) GetRestaurant(ctx context.Context, restaurantID string) (model.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	out, _ := args.Get(0).(model.Restaurant)
	return out, args.Error(1)
}

func (m *BackendMock) DishesByRestaurant(ctx context.Context, restaurantID string) ([]model.Dish, error) {
	args := m.Called(ctx, restaurantID)
	out, _ := args.Get(0).([]model.Dish)
	return out, args.Error(1)
}

func (m *BackendMock) CreateDish(ctx context.Context, in model.CreateDish) (model.Dish, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(model.Dish)
	return out, args.Error(1)
}

func (m *BackendMock) UpdateDish(ctx context.Context, in model.Dish) (model.Dish, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(model.Dish)
	return out, args.Error(1)
}

func (m *BackendMock) DeleteDish(ctx context.Context, dishID string) error {
	args := m.Called(ctx, dishID)
	return args.Error(0)
}

func (m *BackendMock) CreateOrder(ctx context.Context, in model.CreateOrder) (model.Order, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) CustomerOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	out, _ := args.Get(0).([]model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) RestaurantActiveOrders(ctx context.Context, restaurantID string) ([]model.Order, error) {
	args := m.Called(ctx, restaurantID)
	out, _ := args.Get(0).([]model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) RestaurantCompletedOrders(ctx context.Context, restaurantID string) ([]model.Order, error) {
	args := m.Called(ctx, restaurantID)
	out, _ := args.Get(0).([]model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) RestaurantUpdateOrderStatus(ctx context.Context, orderID string, restaurantID string, status model.OrderStatus) (model.Order, error) {
	args := m.Called(ctx, orderID, restaurantID, status)
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) DasherUpdateOrderStatus(ctx context.Context, orderID string, dasherID string, status model.OrderStatus) (model.Order, error) {
	args := m.Called(ctx, orderID, dasherID, status)
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) UnassignedOrders(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) AssignDasher(ctx context.Context, orderID string, dasherID string) (model.Order, error) {
	args := m.Called(ctx, orderID, dasherID)
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) DasherOrders(ctx context.Context, dasherID string) ([]model.Order, error) {
	args := m.Called(ctx, dasherID)
	out, _ := args.Get(0).([]model.Order)
	return out, args.Error(1)
}

func (m *BackendMock) DasherActiveOrder(ctx context.Context, dasherID string) (*model.Order, error) {
	args := m.Called(ctx, dasherID)
	out, _ := args.Get(0).(*model.Order)
	return out, args.Error(1)
}

type ValidatorMock struct{ mock.Mock }

func (m *ValidatorMock) ValidateLogin(ctx context.Context, in model.Credentials) error {
	return m.Called(ctx, in).Error(0)
}

func (m *ValidatorMock) ValidateCustomerSignup(ctx context.Context, in model.CustomerSignup) error {
	return m.Called(ctx, in).Error(0)
}

func (m *ValidatorMock) ValidateDasherSignup(ctx context.Context, in model.DasherSignup) error {
	return m.Called(ctx, in).Error(0)
}

func (m *ValidatorMock) ValidateRestaurantSignup(ctx context.Context, in model.RestaurantSignup) error {
	return m.Called(ctx, in).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, ev model.PortalEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// AuditLogMock は注文履歴の読み出し。
type AuditLogMock struct{ mock.Mock }

func (m *AuditLogMock) List(ctx context.Context, filter repository.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]model.AuditLog)
	return out, args.Error(1)
}

type fixedID struct{ id string }

func (g fixedID) NewID() string { return g.id }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// =====================
// helper
// =====================

const dev = "dev-1"

var testNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type env struct {
	registry  *portal.Registry
	storage   *infraRepo.LocalStorageMemoryRepository
	backend   *BackendMock
	validator *ValidatorMock
	publisher *PublisherMock
	history   *AuditLogMock
	events    *usecase.Events
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log, _ := test.NewNullLogger()
	storage := infraRepo.NewLocalStorageMemoryRepository()
	pub := new(PublisherMock)
	return &env{
		registry:  portal.NewRegistry(storage, log, 0),
		storage:   storage,
		backend:   new(BackendMock),
		validator: new(ValidatorMock),
		publisher: pub,
		history:   new(AuditLogMock),
		events:    usecase.NewEvents(pub, fixedID{id: "ev-1"}, fixedClock{t: testNow}, log),
	}
}

// ロールを直接ログイン状態にする
func (e *env) loginCustomer(t *testing.T, c model.Customer) {
	t.Helper()
	require.NoError(t, e.registry.With(context.Background(), dev, func(ws *portal.Workspace) error {
		return ws.Sessions.Customer.Login(context.Background(), c)
	}))
}

func (e *env) loginDasher(t *testing.T, d model.Dasher) {
	t.Helper()
	require.NoError(t, e.registry.With(context.Background(), dev, func(ws *portal.Workspace) error {
		return ws.Sessions.Dasher.Login(context.Background(), d)
	}))
}

func (e *env) loginRestaurant(t *testing.T, r model.Restaurant) {
	t.Helper()
	require.NoError(t, e.registry.With(context.Background(), dev, func(ws *portal.Workspace) error {
		return ws.Sessions.Restaurant.Login(context.Background(), r)
	}))
}

func (e *env) addToCart(t *testing.T, d model.Dish, qty int64) {
	t.Helper()
	require.NoError(t, e.registry.With(context.Background(), dev, func(ws *portal.Workspace) error {
		ws.Cart.Add(d, qty)
		return nil
	}))
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertHTTPError(t *testing.T, err error, status int, contains string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "expected HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	if contains != "" {
		assert.Contains(t, he.Message, contains)
	}
}
