package handler

import (
	"net/http"

	"fooddash/internal/config"
	"fooddash/internal/domain/model"
	"fooddash/internal/middleware"
	"fooddash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /checkout と支払い方法
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type PlaceOrderRequest struct {
	DeliveryAddress string          `json:"delivery_address"`
	CardNumber      string          `json:"card_number"`
	Tip             decimal.Decimal `json:"tip"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions middleware.SessionChecker) {
	mw := []echo.MiddlewareFunc{
		middleware.DeviceAuth(cfg.JWTSecret),
		middleware.SessionGuard(sessions, model.RoleCustomer),
	}

	e.GET("/checkout/quote", h.quote, mw...)
	e.POST("/checkout", h.placeOrder, mw...)
	e.POST("/customer/payments", h.addPayment, mw...)
	e.DELETE("/customer/payments", h.deletePayment, mw...)
}

// ?tip=2.50
func (h *CheckoutHandler) quote(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	tip := decimal.Zero
	if v := c.QueryParam("tip"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return badRequest(c, "invalid tip")
		}
		tip = d
	}

	out, err := h.uc.Quote(c.Request().Context(), deviceID, tip)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) placeOrder(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), deviceID, usecase.PlaceOrderInput{
		DeliveryAddress: req.DeliveryAddress,
		CardNumber:      req.CardNumber,
		Tip:             req.Tip,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, Envelope{
		Data:  out,
		Alert: &Alert{Message: "Your order has been placed successfully!", Severity: SeveritySuccess},
	})
}

func (h *CheckoutHandler) addPayment(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req model.PaymentInfo
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AddPayment(c.Request().Context(), deviceID, req)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Payment method added successfully.")
}

func (h *CheckoutHandler) deletePayment(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req model.PaymentInfo
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.DeletePayment(c.Request().Context(), deviceID, req)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Payment method removed.")
}
