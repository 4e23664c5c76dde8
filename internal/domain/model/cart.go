package model

import "github.com/shopspring/decimal"

// カートの明細。Quantityは常に正の想定（呼び出し側の責任）。
type CartItem struct {
	Dish     Dish  `json:"dish"`
	Quantity int64 `json:"quantity"`
}

// 小計（price × quantity）
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Dish.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// 別店舗の料理を追加しようとした時の保留中リクエスト。
// 1スロットのみ（後勝ち）。
type ConflictState struct {
	Pending          bool  `json:"pending"`
	ProposedDish     *Dish `json:"proposed_dish,omitempty"`
	ProposedQuantity int64 `json:"proposed_quantity,omitempty"`
}

// 1店舗分の注文途中の状態。
// Itemsが空のときだけRestaurantIDは空文字。
type CartState struct {
	RestaurantID string        `json:"restaurant_id,omitempty"`
	Items        []CartItem    `json:"items"`
	Conflict     ConflictState `json:"conflict"`
}

// 永続化する部分（conflictは含めない）
type CartSnapshot struct {
	RestaurantID string     `json:"restaurantId"`
	Items        []CartItem `json:"items"`
}
