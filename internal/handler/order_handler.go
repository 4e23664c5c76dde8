package handler

import (
	"net/http"

	"fooddash/internal/config"
	"fooddash/internal/domain/model"
	"fooddash/internal/middleware"
	"fooddash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 顧客・店舗・配達員の注文API
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions middleware.SessionChecker) {
	deviceAuth := middleware.DeviceAuth(cfg.JWTSecret)

	//customer
	cg := e.Group("/customer/orders", deviceAuth, middleware.SessionGuard(sessions, model.RoleCustomer))
	cg.GET("", h.customerOrders)
	cg.GET("/:id", h.customerOrder)

	//restaurant
	rg := e.Group("/restaurant/orders", deviceAuth, middleware.SessionGuard(sessions, model.RoleRestaurant))
	rg.GET("/active", h.restaurantActive)
	rg.GET("/completed", h.restaurantCompleted)
	rg.PUT("/:id/status", h.restaurantUpdateStatus)
	rg.GET("/:id/handoff.png", h.handoffQR)
	rg.GET("/:id/history", h.restaurantHistory)

	//dasher
	dg := e.Group("/dasher/orders", deviceAuth, middleware.SessionGuard(sessions, model.RoleDasher))
	dg.GET("", h.dasherOrders)
	dg.GET("/available", h.available)
	dg.GET("/active", h.dasherActive)
	dg.POST("/:id/assign", h.assign)
	dg.PUT("/:id/status", h.dasherUpdateStatus)
}

func (h *OrderHandler) customerOrders(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.CustomerOrders(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) customerOrder(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.CustomerOrder(c.Request().Context(), deviceID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) restaurantActive(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.RestaurantActiveOrders(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) restaurantCompleted(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.RestaurantCompletedOrders(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) restaurantUpdateStatus(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.RestaurantUpdateStatus(c.Request().Context(), deviceID, usecase.UpdateOrderStatusInput{
		OrderID: c.Param("id"),
		Status:  req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, statusMessage(out.Status))
}

func (h *OrderHandler) restaurantHistory(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.RestaurantOrderHistory(c.Request().Context(), deviceID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) handoffQR(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	png, err := h.uc.HandoffQR(c.Request().Context(), deviceID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *OrderHandler) dasherOrders(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.DasherOrders(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) available(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.AvailableOrders(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 配達中が無ければ {"order": null}
func (h *OrderHandler) dasherActive(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ActiveOrder(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]*model.Order{"order": out})
}

func (h *OrderHandler) assign(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.AssignOrder(c.Request().Context(), deviceID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Order assigned successfully! You can now start your delivery.")
}

func (h *OrderHandler) dasherUpdateStatus(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.DasherUpdateStatus(c.Request().Context(), deviceID, usecase.UpdateOrderStatusInput{
		OrderID: c.Param("id"),
		Status:  req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, statusMessage(out.Status))
}

func statusMessage(s model.OrderStatus) string {
	switch s {
	case model.OrderStatusPreparing:
		return "Order accepted."
	case model.OrderStatusReady:
		return "Order marked as ready."
	case model.OrderStatusCancelled:
		return "Order cancelled."
	case model.OrderStatusOnTheWay:
		return "Order picked up."
	case model.OrderStatusDelivered:
		return "Order delivered."
	}
	return "Order updated."
}
