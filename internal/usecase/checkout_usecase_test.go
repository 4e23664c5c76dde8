package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"fooddash/internal/backend"
	"fooddash/internal/domain/model"
	"fooddash/internal/portal"
	"fooddash/internal/usecase"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckoutUsecase(e *env) *usecase.CheckoutUsecase {
	log, _ := test.NewNullLogger()
	return usecase.NewCheckoutUsecase(e.registry, e.backend, e.backend, e.events, log)
}

func card() model.PaymentInfo {
	return model.PaymentInfo{CardNumber: "4111111111111111", CardHolderName: "Ada", ExpirationDate: "12/30", CVV: "123"}
}

func TestNewQuote(t *testing.T) {
	q := usecase.NewQuote(money("20.00"), money("3"))

	assert.Equal(t, "20", q.Subtotal.String())
	assert.Equal(t, "3.99", q.DeliveryFee.String())
	assert.Equal(t, "2", q.ServiceFee.String())
	assert.Equal(t, "1.65", q.Tax.String())
	assert.Equal(t, "3", q.Tip.String())
	assert.Equal(t, "30.64", q.Total.String())

	// 端数はセント単位
	q = usecase.NewQuote(money("10.25"), money("0"))
	assert.Equal(t, "1.03", q.ServiceFee.String())
	assert.Equal(t, "0.85", q.Tax.String())
	assert.Equal(t, "16.12", q.Total.String())
}

func TestCheckoutUsecase_Quote(t *testing.T) {
	e := newEnv(t)
	uc := newCheckoutUsecase(e)
	ctx := context.Background()

	_, err := uc.Quote(ctx, dev, money("0"))
	assertHTTPError(t, err, http.StatusBadRequest, "cart is empty")

	_, err = uc.Quote(ctx, dev, money("-1"))
	assertHTTPError(t, err, http.StatusBadRequest, "invalid tip")

	e.addToCart(t, menuR1()[0], 2)
	q, err := uc.Quote(ctx, dev, money("2"))
	require.NoError(t, err)
	assert.Equal(t, "9", q.Subtotal.String())
	assert.Equal(t, "16.63", q.Total.String())
}

func TestCheckoutUsecase_PlaceOrder_Success(t *testing.T) {
	e := newEnv(t)
	uc := newCheckoutUsecase(e)
	ctx := context.Background()

	e.loginCustomer(t, model.Customer{ID: "c1", Address: "1 Main", PaymentInfo: []model.PaymentInfo{card()}})
	e.addToCart(t, menuR1()[0], 2)

	e.backend.On("CreateOrder", mock.Anything, mock.MatchedBy(func(in model.CreateOrder) bool {
		return in.CustomerID == "c1" && in.RestaurantID == "r1" && in.DeliveryAddress == "1 Main" &&
			len(in.Items) == 1 && in.Items[0].DishID == "d1" && in.Items[0].DishName == "Soup" && in.Items[0].Quantity == 2 &&
			in.TotalPrice.Equal(money("14.63")) && in.Payment == card()
	})).Return(model.Order{ID: "o1", Status: model.OrderStatusPlaced, TotalPrice: money("14.63")}, nil)
	e.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.PortalEvent) bool {
		return ev.Action == model.AuditActionOrderPlaced && ev.ResourceID == "o1" && ev.ActorID == "c1"
	})).Return(nil)

	o, err := uc.PlaceOrder(ctx, dev, usecase.PlaceOrderInput{Tip: money("0")})
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)

	// カートは空になる
	require.NoError(t, e.registry.With(ctx, dev, func(ws *portal.Workspace) error {
		assert.Equal(t, int64(0), ws.Cart.TotalItems())
		return nil
	}))
	e.backend.AssertExpectations(t)
	e.publisher.AssertExpectations(t)
}

func TestCheckoutUsecase_PlaceOrder_FailureKeepsCart(t *testing.T) {
	e := newEnv(t)
	uc := newCheckoutUsecase(e)
	ctx := context.Background()

	e.loginCustomer(t, model.Customer{ID: "c1", Address: "1 Main", PaymentInfo: []model.PaymentInfo{card()}})
	e.addToCart(t, menuR1()[0], 2)
	e.backend.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, &backend.APIError{Status: 503, Message: "down"})

	_, err := uc.PlaceOrder(ctx, dev, usecase.PlaceOrderInput{})
	assertHTTPError(t, err, http.StatusBadGateway, "")

	require.NoError(t, e.registry.With(ctx, dev, func(ws *portal.Workspace) error {
		assert.Equal(t, int64(2), ws.Cart.TotalItems())
		return nil
	}))
}

func TestCheckoutUsecase_PlaceOrder_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("not logged in", func(t *testing.T) {
		e := newEnv(t)
		_, err := newCheckoutUsecase(e).PlaceOrder(ctx, dev, usecase.PlaceOrderInput{})
		assertHTTPError(t, err, http.StatusUnauthorized, "log in")
	})

	t.Run("no address", func(t *testing.T) {
		e := newEnv(t)
		e.loginCustomer(t, model.Customer{ID: "c1", PaymentInfo: []model.PaymentInfo{card()}})
		_, err := newCheckoutUsecase(e).PlaceOrder(ctx, dev, usecase.PlaceOrderInput{})
		assertHTTPError(t, err, http.StatusBadRequest, "delivery address")
	})

	t.Run("no payment", func(t *testing.T) {
		e := newEnv(t)
		e.loginCustomer(t, model.Customer{ID: "c1", Address: "1 Main"})
		_, err := newCheckoutUsecase(e).PlaceOrder(ctx, dev, usecase.PlaceOrderInput{})
		assertHTTPError(t, err, http.StatusBadRequest, "payment method")
	})

	t.Run("unknown card", func(t *testing.T) {
		e := newEnv(t)
		e.loginCustomer(t, model.Customer{ID: "c1", Address: "1 Main", PaymentInfo: []model.PaymentInfo{card()}})
		_, err := newCheckoutUsecase(e).PlaceOrder(ctx, dev, usecase.PlaceOrderInput{CardNumber: "5555"})
		assertHTTPError(t, err, http.StatusBadRequest, "payment method")
	})

	t.Run("empty cart", func(t *testing.T) {
		e := newEnv(t)
		e.loginCustomer(t, model.Customer{ID: "c1", Address: "1 Main", PaymentInfo: []model.PaymentInfo{card()}})
		_, err := newCheckoutUsecase(e).PlaceOrder(ctx, dev, usecase.PlaceOrderInput{DeliveryAddress: "2 Elm"})
		assertHTTPError(t, err, http.StatusBadRequest, "cart is empty")
		e.backend.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}

func TestCheckoutUsecase_AddPayment(t *testing.T) {
	e := newEnv(t)
	uc := newCheckoutUsecase(e)
	ctx := context.Background()

	_, err := uc.AddPayment(ctx, dev, card())
	assertHTTPError(t, err, http.StatusUnauthorized, "")

	e.loginCustomer(t, model.Customer{ID: "c1"})

	_, err = uc.AddPayment(ctx, dev, model.PaymentInfo{CardNumber: "4111"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid payment info")

	spaced := card()
	spaced.CardNumber = "4111 1111 1111 1111"
	e.backend.On("AddPaymentInfo", mock.Anything, "c1", card()).
		Return(model.Customer{ID: "c1", PaymentInfo: []model.PaymentInfo{card()}}, nil)

	out, err := uc.AddPayment(ctx, dev, spaced)
	require.NoError(t, err)
	assert.Len(t, out.Profile.PaymentInfo, 1)

	e.backend.On("DeletePaymentInfo", mock.Anything, "c1", card()).Return(model.Customer{ID: "c1"}, nil)
	out, err = uc.DeletePayment(ctx, dev, card())
	require.NoError(t, err)
	assert.Empty(t, out.Profile.PaymentInfo)
}
