package usecase

import (
	"context"
	"net/http"
	"strings"

	"fooddash/internal/cart"
	"fooddash/internal/domain/model"
	"fooddash/internal/portal"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
// 入力チェックはここで行い、cart.Storeには正しい値だけ渡す。
type CartUsecase struct {
	workspaces Workspaces
	menu       MenuBackend
}

// DI
func NewCartUsecase(workspaces Workspaces, menu MenuBackend) *CartUsecase {
	return &CartUsecase{workspaces: workspaces, menu: menu}
}

type CartResponse struct {
	RestaurantID string              `json:"restaurant_id"`
	Items        []model.CartItem    `json:"items"`
	TotalItems   int64               `json:"total_items"`
	TotalPrice   decimal.Decimal     `json:"total_price"`
	Phase        cart.Phase          `json:"phase"`
	Conflict     model.ConflictState `json:"conflict"`
}

type AddToCartInput struct {
	RestaurantID string
	DishID       string
	Quantity     int64
}

func (u *CartUsecase) GetCart(ctx context.Context, deviceID string) (CartResponse, error) {
	var out CartResponse
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		out = buildCartResponse(ws.Cart)
		return nil
	})
	return out, err
}

// AddToCart は料理をメニューから引いて追加する。
// 別店舗ならconflictが保留され、レスポンスのphaseで分かる。
func (u *CartUsecase) AddToCart(ctx context.Context, deviceID string, in AddToCartInput) (CartResponse, error) {
	if strings.TrimSpace(in.RestaurantID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid restaurant_id")
	}
	if strings.TrimSpace(in.DishID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid dish_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// メニューはキャッシュされるので毎回引いてよい
	dishes, err := u.menu.DishesByRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return CartResponse{}, backendError(err)
	}
	var found *model.Dish
	for i := range dishes {
		if dishes[i].ID == in.DishID {
			found = &dishes[i]
			break
		}
	}
	if found == nil {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "dish not found")
	}
	dish := *found
	if dish.RestaurantID == "" {
		dish.RestaurantID = in.RestaurantID
	}

	var out CartResponse
	err = u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		ws.Cart.Add(dish, in.Quantity)
		out = buildCartResponse(ws.Cart)
		return nil
	})
	return out, err
}

// UpdateQuantity は数量を上書きする。0なら削除。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, deviceID string, dishID string, quantity int64) (CartResponse, error) {
	if strings.TrimSpace(dishID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid dish_id")
	}
	if quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		ws.Cart.SetQuantity(dishID, quantity)
		out = buildCartResponse(ws.Cart)
		return nil
	})
	return out, err
}

// RemoveFromCart は数量を減らす。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, deviceID string, dishID string, quantity int64) (CartResponse, error) {
	if strings.TrimSpace(dishID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid dish_id")
	}
	if quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		ws.Cart.Remove(dishID, quantity)
		out = buildCartResponse(ws.Cart)
		return nil
	})
	return out, err
}

func (u *CartUsecase) ClearCart(ctx context.Context, deviceID string) (CartResponse, error) {
	var out CartResponse
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		ws.Cart.Clear()
		out = buildCartResponse(ws.Cart)
		return nil
	})
	return out, err
}

// ResolveConflict は保留中の別店舗追加を置き換え(accept)か破棄する。
// 保留が無ければ何もせず現在のカートを返す。
func (u *CartUsecase) ResolveConflict(ctx context.Context, deviceID string, accept bool) (CartResponse, error) {
	var out CartResponse
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		ws.Cart.ResolveConflict(accept)
		out = buildCartResponse(ws.Cart)
		return nil
	})
	return out, err
}

func buildCartResponse(store *cart.Store) CartResponse {
	st := store.State()
	return CartResponse{
		RestaurantID: st.RestaurantID,
		Items:        st.Items,
		TotalItems:   store.TotalItems(),
		TotalPrice:   store.TotalPrice(),
		Phase:        store.Phase(),
		Conflict:     st.Conflict,
	}
}
