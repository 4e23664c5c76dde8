package handler

import (
	"net/http"

	"fooddash/internal/config"
	"fooddash/internal/domain/model"
	"fooddash/internal/middleware"
	"fooddash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /sessions と各ロールのアカウント更新
type SessionHandler struct {
	uc *usecase.SessionUsecase
}

// DI
func NewSessionHandler(uc *usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	deviceAuth := middleware.DeviceAuth(cfg.JWTSecret)

	g := e.Group("/sessions", deviceAuth)
	g.GET("", h.list)
	g.GET("/:role", h.get)
	g.POST("/:role/login", h.login)
	g.POST("/:role/signup", h.signup)
	g.POST("/:role/logout", h.logout)

	e.PUT("/customer/account", h.updateCustomer, deviceAuth, middleware.SessionGuard(h.uc, model.RoleCustomer))
	e.PUT("/dasher/account", h.updateDasher, deviceAuth, middleware.SessionGuard(h.uc, model.RoleDasher))
	e.PUT("/restaurant/account", h.updateRestaurant, deviceAuth, middleware.SessionGuard(h.uc, model.RoleRestaurant))
}

func (h *SessionHandler) list(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetSessions(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) get(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	role, err := model.ParseRole(c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown role"})
	}

	out, err := h.uc.GetSession(c.Request().Context(), deviceID, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) login(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	role, err := model.ParseRole(c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown role"})
	}

	var req model.Credentials
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Login(c.Request().Context(), deviceID, role, req)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Login successful.")
}

// ボディの形はロールごとに違う
func (h *SessionHandler) signup(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	role, err := model.ParseRole(c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown role"})
	}

	ctx := c.Request().Context()
	var out interface{}
	switch role {
	case model.RoleCustomer:
		var req model.CustomerSignup
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		out, err = h.uc.SignupCustomer(ctx, deviceID, req)
	case model.RoleDasher:
		var req model.DasherSignup
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		out, err = h.uc.SignupDasher(ctx, deviceID, req)
	case model.RoleRestaurant:
		var req model.RestaurantSignup
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		out, err = h.uc.SignupRestaurant(ctx, deviceID, req)
	}
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Account created.")
}

func (h *SessionHandler) logout(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	role, err := model.ParseRole(c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown role"})
	}

	if err := h.uc.Logout(c.Request().Context(), deviceID, role); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) updateCustomer(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req model.Customer
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateCustomer(c.Request().Context(), deviceID, req)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Profile updated successfully.")
}

func (h *SessionHandler) updateDasher(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req model.Dasher
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateDasher(c.Request().Context(), deviceID, req)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Profile updated successfully.")
}

func (h *SessionHandler) updateRestaurant(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req model.Restaurant
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateRestaurant(c.Request().Context(), deviceID, req)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Profile updated successfully.")
}
