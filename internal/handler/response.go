package handler

import (
	"net/http"

	"fooddash/internal/middleware"
	"fooddash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// トーストの種類
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ポータルに表示する通知
type Alert struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Alert *Alert `json:"alert,omitempty"`
}

// 更新系のレスポンス
type Envelope struct {
	Data  interface{} `json:"data"`
	Alert *Alert      `json:"alert,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Alert: alertFor(he.Status, he.Message)})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal error",
		Alert: alertFor(http.StatusInternalServerError, "Something went wrong. Please try again."),
	})
}

// 4xxは利用者が直せるのでwarning、それ以外はerror
func alertFor(status int, msg string) *Alert {
	sev := SeverityError
	if status >= 400 && status < 500 && status != http.StatusUnauthorized {
		sev = SeverityWarning
	}
	return &Alert{Message: msg, Severity: sev}
}

func writeOK(c echo.Context, data interface{}, msg string) error {
	var a *Alert
	if msg != "" {
		a = &Alert{Message: msg, Severity: SeveritySuccess}
	}
	return c.JSON(http.StatusOK, Envelope{Data: data, Alert: a})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Alert: alertFor(http.StatusBadRequest, msg)})
}

func getDeviceID(c echo.Context) (string, bool) {
	return middleware.DeviceID(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}
