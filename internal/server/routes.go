package server

import (
	"context"
	"net/http"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/metrics"
	"marketplace/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// DBのping（*sql.DBがそのまま満たす）
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	User   *handler.UserHandler
	Seller *handler.SellerHandler
	Admin  *handler.AdminHandler
}

// NewRouter はミドルウェアと全ルートを登録したechoを返す
func NewRouter(cfg config.Config, logger *zap.Logger, db Pinger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.Middleware())

	e.GET("/healthz", healthz(db))
	e.GET("/metrics", metrics.Handler())

	h.User.RegisterRoutes(e)
	h.Seller.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)

	return e
}

func healthz(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
