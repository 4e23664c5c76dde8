package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fooddash/internal/backend"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// backendError はバックエンド呼び出しの失敗をHTTPErrorに変換する。
// 4xxはそのまま返し、5xxや通信失敗は502にまとめる。
func backendError(err error) error {
	if err == nil {
		return nil
	}
	if he, ok := AsHTTPError(err); ok {
		return he
	}
	if ae, ok := backend.AsAPIError(err); ok {
		if ae.Status >= 400 && ae.Status < 500 {
			return NewHTTPError(ae.Status, ae.Message)
		}
		return NewHTTPError(http.StatusBadGateway, "backend error")
	}
	if errors.Is(err, backend.ErrMalformedResponse) {
		return NewHTTPError(http.StatusBadGateway, "malformed backend response")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewHTTPError(http.StatusServiceUnavailable, "request cancelled")
	}
	return NewHTTPError(http.StatusBadGateway, "backend unavailable")
}
