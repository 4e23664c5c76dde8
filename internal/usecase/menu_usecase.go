package usecase

import (
	"context"
	"net/http"
	"strings"

	"fooddash/internal/domain/model"

	"github.com/shopspring/decimal"
)

// MenuUsecase は店舗一覧・メニューの参照と、店舗によるメニュー編集。
type MenuUsecase struct {
	workspaces Workspaces
	menu       MenuBackend
	events     *Events
}

// DI
func NewMenuUsecase(workspaces Workspaces, menu MenuBackend, events *Events) *MenuUsecase {
	return &MenuUsecase{workspaces: workspaces, menu: menu, events: events}
}

type DishInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// ListRestaurants は店舗一覧。qがあれば名前の部分一致で絞り込む。
func (u *MenuUsecase) ListRestaurants(ctx context.Context, q string) ([]model.Restaurant, error) {
	q = strings.TrimSpace(q)
	if len(q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	list, err := u.menu.ListRestaurants(ctx)
	if err != nil {
		return nil, backendError(err)
	}
	if q == "" {
		return list, nil
	}

	needle := strings.ToLower(q)
	out := make([]model.Restaurant, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (u *MenuUsecase) GetRestaurant(ctx context.Context, restaurantID string) (model.Restaurant, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return model.Restaurant{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := u.menu.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return model.Restaurant{}, backendError(err)
	}
	return r, nil
}

func (u *MenuUsecase) Menu(ctx context.Context, restaurantID string) ([]model.Dish, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	dishes, err := u.menu.DishesByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, backendError(err)
	}
	return dishes, nil
}

// MyDishes はログイン中の店舗のメニュー。
func (u *MenuUsecase) MyDishes(ctx context.Context, deviceID string) ([]model.Dish, error) {
	restaurantID, err := sessionActorID(ctx, u.workspaces, deviceID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	return u.Menu(ctx, restaurantID)
}

func (u *MenuUsecase) CreateDish(ctx context.Context, deviceID string, in DishInput) (model.Dish, error) {
	restaurantID, err := sessionActorID(ctx, u.workspaces, deviceID, model.RoleRestaurant)
	if err != nil {
		return model.Dish{}, err
	}
	if err := validateDish(in); err != nil {
		return model.Dish{}, err
	}

	d, err := u.menu.CreateDish(ctx, model.CreateDish{
		Name:         strings.TrimSpace(in.Name),
		Price:        in.Price,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return model.Dish{}, backendError(err)
	}
	u.emitMenu(ctx, deviceID, restaurantID, d.ID, nil, d)
	return d, nil
}

// UpdateDish は自店舗の料理だけ更新できる。
func (u *MenuUsecase) UpdateDish(ctx context.Context, deviceID string, dishID string, in DishInput) (model.Dish, error) {
	restaurantID, err := sessionActorID(ctx, u.workspaces, deviceID, model.RoleRestaurant)
	if err != nil {
		return model.Dish{}, err
	}
	if err := validateDish(in); err != nil {
		return model.Dish{}, err
	}
	before, err := u.ownedDish(ctx, restaurantID, dishID)
	if err != nil {
		return model.Dish{}, err
	}

	d, err := u.menu.UpdateDish(ctx, model.Dish{
		ID:           before.ID,
		Name:         strings.TrimSpace(in.Name),
		Price:        in.Price,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return model.Dish{}, backendError(err)
	}
	u.emitMenu(ctx, deviceID, restaurantID, d.ID, before, d)
	return d, nil
}

func (u *MenuUsecase) DeleteDish(ctx context.Context, deviceID string, dishID string) error {
	restaurantID, err := sessionActorID(ctx, u.workspaces, deviceID, model.RoleRestaurant)
	if err != nil {
		return err
	}
	before, err := u.ownedDish(ctx, restaurantID, dishID)
	if err != nil {
		return err
	}
	if err := u.menu.DeleteDish(ctx, before.ID); err != nil {
		return backendError(err)
	}
	u.emitMenu(ctx, deviceID, restaurantID, before.ID, before, nil)
	return nil
}

func (u *MenuUsecase) ownedDish(ctx context.Context, restaurantID string, dishID string) (model.Dish, error) {
	if strings.TrimSpace(dishID) == "" {
		return model.Dish{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	dishes, err := u.menu.DishesByRestaurant(ctx, restaurantID)
	if err != nil {
		return model.Dish{}, backendError(err)
	}
	for _, d := range dishes {
		if d.ID == dishID {
			return d, nil
		}
	}
	return model.Dish{}, NewHTTPError(http.StatusNotFound, "not found")
}

func (u *MenuUsecase) emitMenu(ctx context.Context, deviceID string, restaurantID string, dishID string, before interface{}, after interface{}) {
	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionUpdateMenu,
		DeviceID:     deviceID,
		Role:         model.RoleRestaurant,
		ActorID:      restaurantID,
		ResourceType: model.AuditResourceDish,
		ResourceID:   dishID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
	})
}

func validateDish(in DishInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if !in.Price.IsPositive() {
		return NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}
	return nil
}
