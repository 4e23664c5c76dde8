package handler

import (
	"net/http"
	"strconv"

	"fooddash/internal/cart"
	"fooddash/internal/config"
	"fooddash/internal/middleware"
	"fooddash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 別店舗の料理を追加しようとした時の通知
const conflictMessage = "Your cart has items from another restaurant. Replace them or keep your current cart."

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	RestaurantID string `json:"restaurant_id"`
	DishID       string `json:"dish_id"`
	Quantity     int64  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type ResolveConflictRequest struct {
	Accept *bool `json:"accept"`
}

// /cart を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.DeviceAuth(cfg.JWTSecret))

	g.GET("", h.getCart)
	g.DELETE("", h.clearCart)
	g.POST("/items", h.addItem)
	g.PUT("/items/:dishId", h.updateItem)
	g.DELETE("/items/:dishId", h.removeItem)
	g.POST("/conflict", h.resolveConflict)
}

func (h *CartHandler) getCart(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AddToCart(c.Request().Context(), deviceID, usecase.AddToCartInput{
		RestaurantID: req.RestaurantID,
		DishID:       req.DishID,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	// conflict保留中は確認を促す
	if out.Phase == cart.PhasePendingConflict {
		return c.JSON(http.StatusOK, Envelope{
			Data:  out,
			Alert: &Alert{Message: conflictMessage, Severity: SeverityWarning},
		})
	}
	return writeOK(c, out, "Added to cart.")
}

func (h *CartHandler) updateItem(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), deviceID, c.Param("dishId"), req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "")
}

// ?quantity=n で減らす。省略時は1
func (h *CartHandler) removeItem(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	qty := int64(1)
	if v := c.QueryParam("quantity"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid quantity")
		}
		qty = n
	}

	out, err := h.uc.RemoveFromCart(c.Request().Context(), deviceID, c.Param("dishId"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "")
}

func (h *CartHandler) clearCart(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ClearCart(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Cart cleared.")
}

func (h *CartHandler) resolveConflict(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	var req ResolveConflictRequest
	if err := c.Bind(&req); err != nil || req.Accept == nil {
		return badRequest(c, "accept is required")
	}

	out, err := h.uc.ResolveConflict(c.Request().Context(), deviceID, *req.Accept)
	if err != nil {
		return writeError(c, err)
	}

	msg := "Kept your current cart."
	if *req.Accept {
		msg = "Cart replaced."
	}
	return writeOK(c, out, msg)
}
