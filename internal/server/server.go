package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fooddash/internal/config"
	"fooddash/internal/handler"
	"fooddash/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Handlers は登録するHTTPハンドラ一式
type Handlers struct {
	Device   *handler.DeviceHandler
	Cart     *handler.CartHandler
	Session  *handler.SessionHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Menu     *handler.MenuHandler
}

// NewRouter はechoにミドルウェアとルートを載せる。
func NewRouter(cfg config.Config, h Handlers, sessions middleware.SessionChecker, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))

	h.Device.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Session.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg, sessions)
	h.Order.RegisterRoutes(e, cfg, sessions)
	h.Menu.RegisterRoutes(e, cfg, sessions)

	return e
}

// WithCORS は3つのポータルからのアクセスを許可する。
func WithCORS(cfg config.Config, next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.PortalOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(next)
}

// Start はctxが終わるまで待ち受ける。
func Start(ctx context.Context, addr string, h http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	//シャットダウン
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
