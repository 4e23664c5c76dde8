package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fooddash/internal/domain/model"
	"fooddash/internal/portal"
	"fooddash/internal/repository"

	"github.com/skip2/go-qrcode"
)

// 受け渡し用QRのサイズ(px)
const handoffQRSize = 256

// OrderUsecase は注文の参照とステータス更新。
// 顧客・店舗・配達員それぞれ自分の注文だけ触れる。
type OrderUsecase struct {
	workspaces Workspaces
	orders     OrderBackend
	history    AuditLogReader
	events     *Events
}

// DI
func NewOrderUsecase(workspaces Workspaces, orders OrderBackend, history AuditLogReader, events *Events) *OrderUsecase {
	return &OrderUsecase{workspaces: workspaces, orders: orders, history: history, events: events}
}

// 履歴として返す件数の上限
const orderHistoryLimit = 200

// OrderHistoryEntry は注文履歴の1行。監査ログから組み立てる。
type OrderHistoryEntry struct {
	Action  model.AuditAction `json:"action"`
	Role    model.Role        `json:"role"`
	ActorID string            `json:"actor_id"`
	From    model.OrderStatus `json:"from,omitempty"`
	To      model.OrderStatus `json:"to,omitempty"`
	At      time.Time         `json:"at"`
}

type UpdateOrderStatusInput struct {
	OrderID string
	Status  model.OrderStatus
}

// ===== customer =====

func (u *OrderUsecase) CustomerOrders(ctx context.Context, deviceID string) ([]model.Order, error) {
	customerID, err := u.actorID(ctx, deviceID, model.RoleCustomer)
	if err != nil {
		return nil, err
	}
	list, err := u.orders.CustomerOrders(ctx, customerID)
	if err != nil {
		return nil, backendError(err)
	}
	return list, nil
}

// CustomerOrder は注文詳細。他人の注文は404。
func (u *OrderUsecase) CustomerOrder(ctx context.Context, deviceID string, orderID string) (model.Order, error) {
	customerID, err := u.actorID(ctx, deviceID, model.RoleCustomer)
	if err != nil {
		return model.Order{}, err
	}
	o, err := u.getOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if o.CustomerID != customerID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}

// ===== restaurant =====

func (u *OrderUsecase) RestaurantActiveOrders(ctx context.Context, deviceID string) ([]model.Order, error) {
	restaurantID, err := u.actorID(ctx, deviceID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	list, err := u.orders.RestaurantActiveOrders(ctx, restaurantID)
	if err != nil {
		return nil, backendError(err)
	}
	return list, nil
}

func (u *OrderUsecase) RestaurantCompletedOrders(ctx context.Context, deviceID string) ([]model.Order, error) {
	restaurantID, err := u.actorID(ctx, deviceID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	list, err := u.orders.RestaurantCompletedOrders(ctx, restaurantID)
	if err != nil {
		return nil, backendError(err)
	}
	return list, nil
}

// RestaurantUpdateStatus は受付・調理完了・キャンセル。
func (u *OrderUsecase) RestaurantUpdateStatus(ctx context.Context, deviceID string, in UpdateOrderStatusInput) (model.Order, error) {
	restaurantID, err := u.actorID(ctx, deviceID, model.RoleRestaurant)
	if err != nil {
		return model.Order{}, err
	}
	if !in.Status.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	cur, err := u.getOrder(ctx, in.OrderID)
	if err != nil {
		return model.Order{}, err
	}
	if cur.RestaurantID != restaurantID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if !model.CanTransition(model.RoleRestaurant, cur.Status, in.Status) {
		return model.Order{}, NewHTTPError(http.StatusConflict, "invalid status transition")
	}

	updated, err := u.orders.RestaurantUpdateOrderStatus(ctx, cur.ID, restaurantID, in.Status)
	if err != nil {
		return model.Order{}, backendError(err)
	}
	u.emitStatus(ctx, deviceID, model.RoleRestaurant, restaurantID, cur, updated)
	return updated, nil
}

// RestaurantOrderHistory は自店の注文のステータス履歴。古い順。
func (u *OrderUsecase) RestaurantOrderHistory(ctx context.Context, deviceID string, orderID string) ([]OrderHistoryEntry, error) {
	restaurantID, err := u.actorID(ctx, deviceID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	o, err := u.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != restaurantID {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	resourceType := model.AuditResourceOrder
	logs, err := u.history.List(ctx, repository.AuditLogFilter{
		ResourceType: &resourceType,
		ResourceID:   &o.ID,
		Limit:        orderHistoryLimit,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "history unavailable")
	}

	// Listは新しい順なので反転
	out := make([]OrderHistoryEntry, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		out = append(out, OrderHistoryEntry{
			Action:  l.Action,
			Role:    l.Role,
			ActorID: l.ActorID,
			From:    statusIn(l.BeforeJSON),
			To:      statusIn(l.AfterJSON),
			At:      l.CreatedAt,
		})
	}
	return out, nil
}

// HandoffQR は配達員に見せる受け渡し用QR(PNG)。READYの注文だけ。
func (u *OrderUsecase) HandoffQR(ctx context.Context, deviceID string, orderID string) ([]byte, error) {
	restaurantID, err := u.actorID(ctx, deviceID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	o, err := u.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != restaurantID {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if o.Status != model.OrderStatusReady {
		return nil, NewHTTPError(http.StatusConflict, "order is not ready")
	}

	png, err := qrcode.Encode(HandoffPayload(o), qrcode.Medium, handoffQRSize)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "qr error")
	}
	return png, nil
}

// HandoffPayload はQRに埋め込む文字列。
func HandoffPayload(o model.Order) string {
	return "fooddash:order:" + o.ID + ":restaurant:" + o.RestaurantID
}

// ===== dasher =====

func (u *OrderUsecase) AvailableOrders(ctx context.Context, deviceID string) ([]model.Order, error) {
	if _, err := u.actorID(ctx, deviceID, model.RoleDasher); err != nil {
		return nil, err
	}
	list, err := u.orders.UnassignedOrders(ctx)
	if err != nil {
		return nil, backendError(err)
	}
	return list, nil
}

// AssignOrder は注文を引き受ける。配達中の注文があれば409。
func (u *OrderUsecase) AssignOrder(ctx context.Context, deviceID string, orderID string) (model.Order, error) {
	dasherID, err := u.actorID(ctx, deviceID, model.RoleDasher)
	if err != nil {
		return model.Order{}, err
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	active, err := u.orders.DasherActiveOrder(ctx, dasherID)
	if err != nil {
		return model.Order{}, backendError(err)
	}
	if active != nil {
		return model.Order{}, NewHTTPError(http.StatusConflict, "You already have an active order.")
	}

	assigned, err := u.orders.AssignDasher(ctx, orderID, dasherID)
	if err != nil {
		return model.Order{}, backendError(err)
	}

	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionAssignDasher,
		DeviceID:     deviceID,
		Role:         model.RoleDasher,
		ActorID:      dasherID,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   assigned.ID,
	})
	return assigned, nil
}

// ActiveOrder は配達中の注文。無ければnil。
func (u *OrderUsecase) ActiveOrder(ctx context.Context, deviceID string) (*model.Order, error) {
	dasherID, err := u.actorID(ctx, deviceID, model.RoleDasher)
	if err != nil {
		return nil, err
	}
	o, err := u.orders.DasherActiveOrder(ctx, dasherID)
	if err != nil {
		return nil, backendError(err)
	}
	return o, nil
}

func (u *OrderUsecase) DasherOrders(ctx context.Context, deviceID string) ([]model.Order, error) {
	dasherID, err := u.actorID(ctx, deviceID, model.RoleDasher)
	if err != nil {
		return nil, err
	}
	list, err := u.orders.DasherOrders(ctx, dasherID)
	if err != nil {
		return nil, backendError(err)
	}
	return list, nil
}

// DasherUpdateStatus は受け取り(ON_THE_WAY)と配達完了(DELIVERED)。
func (u *OrderUsecase) DasherUpdateStatus(ctx context.Context, deviceID string, in UpdateOrderStatusInput) (model.Order, error) {
	dasherID, err := u.actorID(ctx, deviceID, model.RoleDasher)
	if err != nil {
		return model.Order{}, err
	}
	if !in.Status.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	cur, err := u.getOrder(ctx, in.OrderID)
	if err != nil {
		return model.Order{}, err
	}
	if cur.DasherID != dasherID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if !model.CanTransition(model.RoleDasher, cur.Status, in.Status) {
		return model.Order{}, NewHTTPError(http.StatusConflict, "invalid status transition")
	}

	updated, err := u.orders.DasherUpdateOrderStatus(ctx, cur.ID, dasherID, in.Status)
	if err != nil {
		return model.Order{}, backendError(err)
	}
	u.emitStatus(ctx, deviceID, model.RoleDasher, dasherID, cur, updated)
	return updated, nil
}

// ===== helper =====

// actorID はロールのログイン中プロフィールのIDを返す。未ログインなら401。
func (u *OrderUsecase) actorID(ctx context.Context, deviceID string, role model.Role) (string, error) {
	return sessionActorID(ctx, u.workspaces, deviceID, role)
}

func (u *OrderUsecase) getOrder(ctx context.Context, orderID string) (model.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := u.orders.GetOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, backendError(err)
	}
	return o, nil
}

func (u *OrderUsecase) emitStatus(ctx context.Context, deviceID string, role model.Role, actorID string, before model.Order, after model.Order) {
	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionUpdateOrderStatus,
		DeviceID:     deviceID,
		Role:         role,
		ActorID:      actorID,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   before.ID,
		BeforeJSON:   toJSON(map[string]interface{}{"status": before.Status}),
		AfterJSON:    toJSON(map[string]interface{}{"status": after.Status}),
	})
}

// 監査ログのbefore/afterからstatusだけ取り出す
func statusIn(raw string) model.OrderStatus {
	if raw == "" {
		return ""
	}
	var v struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ""
	}
	return v.Status
}

func sessionActorID(ctx context.Context, workspaces Workspaces, deviceID string, role model.Role) (string, error) {
	var id string
	err := workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		switch role {
		case model.RoleCustomer:
			if p, ok := ws.Sessions.Customer.Profile(); ok {
				id = p.ID
			}
		case model.RoleDasher:
			if p, ok := ws.Sessions.Dasher.Profile(); ok {
				id = p.ID
			}
		case model.RoleRestaurant:
			if p, ok := ws.Sessions.Restaurant.Profile(); ok {
				id = p.ID
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
