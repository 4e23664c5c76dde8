// Package cart は1店舗分の注文途中カートを扱う。
package cart

import (
	"errors"

	"fooddash/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 永続化データが不変条件を満たしていない
var ErrInconsistentSnapshot = errors.New("inconsistent cart snapshot")

// Store はカートのreducer。
// 入力チェックはしない（数量が正であることは呼び出し側の責任）。
// 並行アクセスは想定しない。端末ごとに1つ作り、呼び出し側で直列化する。
type Store struct {
	state model.CartState
}

func NewStore() *Store {
	return &Store{state: model.CartState{Items: []model.CartItem{}}}
}

// Add は料理を追加する。
// 別店舗の料理ならitemsは変えずにconflictへ保留する（後勝ち）。
func (s *Store) Add(dish model.Dish, quantity int64) {
	if s.state.RestaurantID != "" && dish.RestaurantID != s.state.RestaurantID {
		proposed := dish
		s.state.Conflict = model.ConflictState{
			Pending:          true,
			ProposedDish:     &proposed,
			ProposedQuantity: quantity,
		}
		return
	}

	if s.state.RestaurantID == "" {
		s.state.RestaurantID = dish.RestaurantID
	}

	// 同じ料理は数量加算、無ければ末尾に追加
	if i := s.indexOf(dish.ID); i != -1 {
		s.state.Items[i].Quantity += quantity
		return
	}
	s.state.Items = append(s.state.Items, model.CartItem{Dish: dish, Quantity: quantity})
}

// SetQuantity は数量を上書きする。0以下なら明細ごと削除。
func (s *Store) SetQuantity(dishID string, quantity int64) {
	if i := s.indexOf(dishID); i != -1 {
		if quantity > 0 {
			s.state.Items[i].Quantity = quantity
		} else {
			s.removeAt(i)
		}
	}
	s.resetIfEmpty()
}

// Remove は数量を減らす。0以下になるなら明細ごと削除（マイナスにはしない）。
func (s *Store) Remove(dishID string, quantity int64) {
	if i := s.indexOf(dishID); i != -1 {
		if quantity >= s.state.Items[i].Quantity {
			s.removeAt(i)
		} else {
			s.state.Items[i].Quantity -= quantity
		}
	}
	s.resetIfEmpty()
}

// Clear は明細・店舗・保留中のconflictをすべて消す。
func (s *Store) Clear() {
	s.state = model.CartState{Items: []model.CartItem{}}
}

// ResolveConflict は保留中の追加を解決する。
// accept=trueでカートを提案内容に置き換え、falseで現状維持。保留が無ければ何もしない。
func (s *Store) ResolveConflict(accept bool) {
	c := s.state.Conflict
	if !c.Pending {
		return
	}

	if accept && c.ProposedDish != nil {
		s.state.Items = []model.CartItem{{Dish: *c.ProposedDish, Quantity: c.ProposedQuantity}}
		s.state.RestaurantID = c.ProposedDish.RestaurantID
	}
	s.state.Conflict = model.ConflictState{}
}

// 合計個数
func (s *Store) TotalItems() int64 {
	var total int64
	for _, it := range s.state.Items {
		total += it.Quantity
	}
	return total
}

// 合計金額（price × quantity の総和）
func (s *Store) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.state.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// State は現在の状態のコピーを返す。
func (s *Store) State() model.CartState {
	out := model.CartState{
		RestaurantID: s.state.RestaurantID,
		Items:        make([]model.CartItem, len(s.state.Items)),
		Conflict:     s.state.Conflict,
	}
	copy(out.Items, s.state.Items)
	if d := s.state.Conflict.ProposedDish; d != nil {
		proposed := *d
		out.Conflict.ProposedDish = &proposed
	}
	return out
}

// Snapshot は永続化する部分だけを返す（conflictは含めない）。
func (s *Store) Snapshot() model.CartSnapshot {
	items := make([]model.CartItem, len(s.state.Items))
	copy(items, s.state.Items)
	return model.CartSnapshot{RestaurantID: s.state.RestaurantID, Items: items}
}

// Restore はスナップショットから復元する。
// 不変条件を満たさない場合は空のカートのままエラーを返す。
func (s *Store) Restore(snap model.CartSnapshot) error {
	s.Clear()

	if len(snap.Items) == 0 {
		if snap.RestaurantID != "" {
			return ErrInconsistentSnapshot
		}
		return nil
	}
	if snap.RestaurantID == "" {
		return ErrInconsistentSnapshot
	}
	for _, it := range snap.Items {
		if it.Quantity <= 0 || it.Dish.ID == "" || it.Dish.RestaurantID != snap.RestaurantID {
			return ErrInconsistentSnapshot
		}
	}

	s.state.RestaurantID = snap.RestaurantID
	s.state.Items = append(s.state.Items, snap.Items...)
	return nil
}

func (s *Store) indexOf(dishID string) int {
	for i, it := range s.state.Items {
		if it.Dish.ID == dishID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
}

func (s *Store) resetIfEmpty() {
	if len(s.state.Items) == 0 {
		s.state.RestaurantID = ""
	}
}
