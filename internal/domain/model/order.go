package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusOnTheWay  OrderStatus = "ON_THE_WAY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady,
		OrderStatusOnTheWay, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 終端ステータス
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID                string          `json:"id"`
	CustomerID        string          `json:"customerId"`
	RestaurantID      string          `json:"restaurantId"`
	DeliveryAddress   string          `json:"deliveryAddress"`
	RestaurantAddress string          `json:"restaurantAddress,omitempty"`
	DasherID          string          `json:"dasherId,omitempty"`
	DasherName        string          `json:"dasherName,omitempty"`
	OrderTime         time.Time       `json:"orderTime"`
	Status            OrderStatus     `json:"status"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Items             []OrderItem     `json:"items"`
	Payment           PaymentInfo     `json:"payment"`
}

type OrderItem struct {
	DishID   string `json:"dishId"`
	DishName string `json:"dishName,omitempty"`
	Quantity int64  `json:"quantity"`
}

// POST /orders の入力
type CreateOrder struct {
	CustomerID      string          `json:"customerId"`
	RestaurantID    string          `json:"restaurantId"`
	DeliveryAddress string          `json:"deliveryAddress"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Items           []OrderItem     `json:"items"`
	Payment         PaymentInfo     `json:"payment"`
}

// ロールごとに許される遷移
var orderTransitions = map[Role]map[OrderStatus][]OrderStatus{
	RoleRestaurant: {
		OrderStatusPlaced:    {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	},
	RoleDasher: {
		OrderStatusReady:    {OrderStatusOnTheWay},
		OrderStatusOnTheWay: {OrderStatusDelivered},
	},
}

// CanTransition はroleがfromからtoへ進めてよいか返す。
func CanTransition(role Role, from OrderStatus, to OrderStatus) bool {
	for _, next := range orderTransitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}
