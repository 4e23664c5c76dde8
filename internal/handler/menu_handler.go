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

// 店舗一覧・メニュー（公開）と店舗のメニュー編集
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

type DishRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

func (r DishRequest) input() usecase.DishInput {
	return usecase.DishInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions middleware.SessionChecker) {
	e.GET("/restaurants", h.list)
	e.GET("/restaurants/:id", h.detail)
	e.GET("/restaurants/:id/dishes", h.dishes)

	g := e.Group("/restaurant/dishes", middleware.DeviceAuth(cfg.JWTSecret), middleware.SessionGuard(sessions, model.RoleRestaurant))
	g.GET("", h.myDishes)
	g.POST("", h.createDish)
	g.PUT("/:id", h.updateDish)
	g.DELETE("/:id", h.deleteDish)
}

// ?q=名前
func (h *MenuHandler) list(c echo.Context) error {
	out, err := h.uc.ListRestaurants(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) detail(c echo.Context) error {
	out, err := h.uc.GetRestaurant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) dishes(c echo.Context) error {
	out, err := h.uc.Menu(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) myDishes(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.MyDishes(c.Request().Context(), deviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) createDish(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req DishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateDish(c.Request().Context(), deviceID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, Envelope{
		Data:  out,
		Alert: &Alert{Message: "Dish added.", Severity: SeveritySuccess},
	})
}

func (h *MenuHandler) updateDish(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	var req DishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateDish(c.Request().Context(), deviceID, c.Param("id"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out, "Dish updated.")
}

func (h *MenuHandler) deleteDish(c echo.Context) error {
	deviceID, ok := getDeviceID(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.DeleteDish(c.Request().Context(), deviceID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
