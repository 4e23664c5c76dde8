package usecase

import (
	"context"
	"net/http"
	"strings"

	"fooddash/internal/domain/model"
	"fooddash/internal/portal"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 料金（ドル）
var (
	DeliveryFee    = decimal.RequireFromString("3.99")
	ServiceFeeRate = decimal.RequireFromString("0.10")
	TaxRate        = decimal.RequireFromString("0.0825")
)

// CheckoutUsecase は見積もり・注文確定・支払い方法の管理。
type CheckoutUsecase struct {
	workspaces Workspaces
	orders     OrderBackend
	customers  CustomerBackend
	events     *Events
	log        logrus.FieldLogger
}

// DI
func NewCheckoutUsecase(
	workspaces Workspaces,
	orders OrderBackend,
	customers CustomerBackend,
	events *Events,
	log logrus.FieldLogger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		workspaces: workspaces,
		orders:     orders,
		customers:  customers,
		events:     events,
		log:        log,
	}
}

// 見積もり。すべてセント単位に丸める
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Tip         decimal.Decimal `json:"tip"`
	Total       decimal.Decimal `json:"total"`
}

type PlaceOrderInput struct {
	// 空ならプロフィールの住所
	DeliveryAddress string
	// 空なら登録済みの先頭カード
	CardNumber string
	Tip        decimal.Decimal
}

// NewQuote は小計とチップから料金を計算する。
func NewQuote(subtotal decimal.Decimal, tip decimal.Decimal) Quote {
	subtotal = subtotal.Round(2)
	tip = tip.Round(2)
	service := subtotal.Mul(ServiceFeeRate).Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		ServiceFee:  service,
		Tax:         tax,
		Tip:         tip,
		Total:       subtotal.Add(DeliveryFee).Add(service).Add(tax).Add(tip),
	}
}

// Quote は今のカートの見積もり。
func (u *CheckoutUsecase) Quote(ctx context.Context, deviceID string, tip decimal.Decimal) (Quote, error) {
	if tip.IsNegative() {
		return Quote{}, NewHTTPError(http.StatusBadRequest, "invalid tip")
	}

	var out Quote
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		if ws.Cart.TotalItems() == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		out = NewQuote(ws.Cart.TotalPrice(), tip)
		return nil
	})
	return out, err
}

// PlaceOrder は注文を作成し、成功したらカートを空にする。
// 失敗した場合カートは変えない。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, deviceID string, in PlaceOrderInput) (model.Order, error) {
	if in.Tip.IsNegative() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid tip")
	}

	var (
		order    model.Order
		customer model.Customer
	)
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		c, ok := ws.Sessions.Customer.Profile()
		if !ok || c.ID == "" {
			return NewHTTPError(http.StatusUnauthorized, "Please log in to place an order.")
		}
		customer = c

		address := strings.TrimSpace(in.DeliveryAddress)
		if address == "" {
			address = strings.TrimSpace(c.Address)
		}
		if address == "" {
			return NewHTTPError(http.StatusBadRequest, "Please enter a delivery address.")
		}

		payment, ok := selectPayment(c.PaymentInfo, in.CardNumber)
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "Please add a payment method.")
		}

		st := ws.Cart.State()
		if len(st.Items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if st.RestaurantID == "" {
			return NewHTTPError(http.StatusBadRequest, "Restaurant is missing from your cart.")
		}

		quote := NewQuote(ws.Cart.TotalPrice(), in.Tip)
		items := make([]model.OrderItem, 0, len(st.Items))
		for _, it := range st.Items {
			items = append(items, model.OrderItem{
				DishID:   it.Dish.ID,
				DishName: it.Dish.Name,
				Quantity: it.Quantity,
			})
		}

		created, err := u.orders.CreateOrder(ctx, model.CreateOrder{
			CustomerID:      c.ID,
			RestaurantID:    st.RestaurantID,
			DeliveryAddress: address,
			TotalPrice:      quote.Total,
			Items:           items,
			Payment:         payment,
		})
		if err != nil {
			return backendError(err)
		}

		ws.Cart.Clear()
		order = created
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.events.Emit(ctx, model.PortalEvent{
		Action:       model.AuditActionOrderPlaced,
		DeviceID:     deviceID,
		Role:         model.RoleCustomer,
		ActorID:      customer.ID,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   order.ID,
		AfterJSON:    toJSON(map[string]interface{}{"status": order.Status, "total_price": order.TotalPrice}),
	})
	return order, nil
}

// AddPayment は支払い方法を登録し、セッションのプロフィールを更新する。
func (u *CheckoutUsecase) AddPayment(ctx context.Context, deviceID string, p model.PaymentInfo) (model.AuthSession[model.Customer], error) {
	p.CardNumber = strings.ReplaceAll(strings.TrimSpace(p.CardNumber), " ", "")
	if p.CardNumber == "" || strings.TrimSpace(p.CardHolderName) == "" || strings.TrimSpace(p.ExpirationDate) == "" || strings.TrimSpace(p.CVV) == "" {
		return model.AuthSession[model.Customer]{}, NewHTTPError(http.StatusBadRequest, "invalid payment info")
	}
	return u.updatePayments(ctx, deviceID, func(customerID string) (model.Customer, error) {
		return u.customers.AddPaymentInfo(ctx, customerID, p)
	})
}

// DeletePayment は登録済みの支払い方法を削除する。
func (u *CheckoutUsecase) DeletePayment(ctx context.Context, deviceID string, p model.PaymentInfo) (model.AuthSession[model.Customer], error) {
	if strings.TrimSpace(p.CardNumber) == "" {
		return model.AuthSession[model.Customer]{}, NewHTTPError(http.StatusBadRequest, "invalid payment info")
	}
	return u.updatePayments(ctx, deviceID, func(customerID string) (model.Customer, error) {
		return u.customers.DeletePaymentInfo(ctx, customerID, p)
	})
}

func (u *CheckoutUsecase) updatePayments(ctx context.Context, deviceID string, call func(customerID string) (model.Customer, error)) (model.AuthSession[model.Customer], error) {
	var out model.AuthSession[model.Customer]
	err := u.workspaces.With(ctx, deviceID, func(ws *portal.Workspace) error {
		c, ok := ws.Sessions.Customer.Profile()
		if !ok {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		updated, err := call(c.ID)
		if err != nil {
			return backendError(err)
		}
		if err := ws.Sessions.Customer.SetProfile(ctx, updated); err != nil {
			u.log.WithError(err).WithField("device_id", deviceID).Warn("session mirror failed")
		}
		out = ws.Sessions.Customer.State()
		return nil
	})
	return out, err
}

// カード番号が空なら先頭
func selectPayment(list []model.PaymentInfo, cardNumber string) (model.PaymentInfo, bool) {
	if len(list) == 0 {
		return model.PaymentInfo{}, false
	}
	cardNumber = strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
	if cardNumber == "" {
		return list[0], true
	}
	for _, p := range list {
		if p.CardNumber == cardNumber {
			return p, true
		}
	}
	return model.PaymentInfo{}, false
}
