package middleware

import (
	"net/http"
	"strings"

	"fooddash/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxDeviceIDKey = "device_id" // string
)

// bearerAuth用の端末トークン検証ミドルウェア。
func DeviceAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTを検証して端末IDを取り出す
			deviceID, err := token.Parse(rawToken, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxDeviceIDKey, deviceID)

			return next(c)
		}
	}
}

// DeviceID はDeviceAuthが入れた端末IDを取り出す。
func DeviceID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxDeviceIDKey).(string)
	return id, ok && id != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
