package middleware

import (
	"context"
	"net/http"

	"fooddash/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// ロールのログイン状態を確認する約束（SessionUsecase）
type SessionChecker interface {
	IsAuthenticated(ctx context.Context, deviceID string, role model.Role) (bool, error)
}

// SessionGuard は端末のroleがログイン中か確認する。DeviceAuthの後に使う。
func SessionGuard(checker SessionChecker, role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deviceID, ok := DeviceID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			authed, err := checker.IsAuthenticated(c.Request().Context(), deviceID, role)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//未ログインのロールは拒否
			if !authed {
				return c.JSON(http.StatusForbidden, errorJSON(string(role)+" login required"))
			}

			return next(c)
		}
	}
}
