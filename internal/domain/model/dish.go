package model

import "github.com/shopspring/decimal"

// メニューの1品。RestaurantIDで所属店舗を表す。
type Dish struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"imageUrl"`
	RestaurantID string          `json:"restaurantId"`
}

// 新規作成時の入力（idはバックエンドが採番）
type CreateDish struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"imageUrl"`
	RestaurantID string          `json:"restaurantId"`
}
