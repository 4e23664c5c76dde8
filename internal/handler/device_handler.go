package handler

import (
	"net/http"

	"fooddash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /devices, /healthz
type DeviceHandler struct {
	uc *usecase.DeviceUsecase
}

// DI
func NewDeviceHandler(uc *usecase.DeviceUsecase) *DeviceHandler {
	return &DeviceHandler{uc: uc}
}

func (h *DeviceHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/devices", h.register)
	e.GET("/healthz", h.healthz)
}

// 端末IDとトークンを払い出す
func (h *DeviceHandler) register(c echo.Context) error {
	out, err := h.uc.Register(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DeviceHandler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
