package usecase

import (
	"context"
	"time"

	"fooddash/internal/domain/model"
	"fooddash/internal/portal"
	"fooddash/internal/repository"
)

// 端末ごとの状態へのアクセス（portal.Registry）
type Workspaces interface {
	With(ctx context.Context, deviceID string, fn func(ws *portal.Workspace) error) error
}

// イベントの送り先（Kafka、監査ログ）
type EventPublisher interface {
	Publish(ctx context.Context, ev model.PortalEvent) error
}

// 監査ログの読み出し（注文の履歴表示）
type AuditLogReader interface {
	List(ctx context.Context, filter repository.AuditLogFilter) ([]model.AuditLog, error)
}

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// ログイン・サインアップ入力の検証
type AccountValidator interface {
	ValidateLogin(ctx context.Context, in model.Credentials) error
	ValidateCustomerSignup(ctx context.Context, in model.CustomerSignup) error
	ValidateDasherSignup(ctx context.Context, in model.DasherSignup) error
	ValidateRestaurantSignup(ctx context.Context, in model.RestaurantSignup) error
}

// 顧客アカウントのバックエンドAPI
type CustomerBackend interface {
	CustomerLogin(ctx context.Context, cred model.Credentials) (model.Customer, error)
	CustomerSignup(ctx context.Context, in model.CustomerSignup) (model.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, in model.Customer) (model.Customer, error)
	AddPaymentInfo(ctx context.Context, customerID string, p model.PaymentInfo) (model.Customer, error)
	DeletePaymentInfo(ctx context.Context, customerID string, p model.PaymentInfo) (model.Customer, error)
}

// 配達員アカウントのバックエンドAPI
type DasherBackend interface {
	DasherLogin(ctx context.Context, cred model.Credentials) (model.Dasher, error)
	DasherSignup(ctx context.Context, in model.DasherSignup) (model.Dasher, error)
	UpdateDasher(ctx context.Context, dasherID string, in model.Dasher) (model.Dasher, error)
}

// 店舗アカウントのバックエンドAPI
type RestaurantBackend interface {
	RestaurantLogin(ctx context.Context, cred model.Credentials) (model.Restaurant, error)
	RestaurantSignup(ctx context.Context, in model.RestaurantSignup) (model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, restaurantID string, in model.Restaurant) (model.Restaurant, error)
}

type AccountBackend interface {
	CustomerBackend
	DasherBackend
	RestaurantBackend
}

// 店舗一覧とメニュー
type MenuBackend interface {
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	GetRestaurant(ctx context.Context, restaurantID string) (model.Restaurant, error)
	DishesByRestaurant(ctx context.Context, restaurantID string) ([]model.Dish, error)
	CreateDish(ctx context.Context, in model.CreateDish) (model.Dish, error)
	UpdateDish(ctx context.Context, in model.Dish) (model.Dish, error)
	DeleteDish(ctx context.Context, dishID string) error
}

// 注文
type OrderBackend interface {
	CreateOrder(ctx context.Context, in model.CreateOrder) (model.Order, error)
	GetOrder(ctx context.Context, orderID string) (model.Order, error)
	CustomerOrders(ctx context.Context, customerID string) ([]model.Order, error)
	RestaurantActiveOrders(ctx context.Context, restaurantID string) ([]model.Order, error)
	RestaurantCompletedOrders(ctx context.Context, restaurantID string) ([]model.Order, error)
	RestaurantUpdateOrderStatus(ctx context.Context, orderID string, restaurantID string, status model.OrderStatus) (model.Order, error)
	DasherUpdateOrderStatus(ctx context.Context, orderID string, dasherID string, status model.OrderStatus) (model.Order, error)
	UnassignedOrders(ctx context.Context) ([]model.Order, error)
	AssignDasher(ctx context.Context, orderID string, dasherID string) (model.Order, error)
	DasherOrders(ctx context.Context, dasherID string) ([]model.Order, error)
	DasherActiveOrder(ctx context.Context, dasherID string) (*model.Order, error)
}
