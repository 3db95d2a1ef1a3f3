// Package adminapi is the HTTP surface consumed by the management
// front-end. Handlers stay thin: they parse and validate payloads, call
// the domain services and translate typed failures into status codes.
package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/routerops/radman/config"
	"github.com/routerops/radman/internal/accounts"
	"github.com/routerops/radman/internal/devices"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server wires the echo engine, middleware and route groups.
type Server struct {
	echo *echo.Echo
	cfg  *config.AppConfig
}

func NewServer(
	cfg *config.AppConfig,
	db *gorm.DB,
	registry *devices.Registry,
	accountService *accounts.AccountService,
	audit *accounts.AuditWriter,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddleware("radman"))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/healthcheck", healthcheck)
	NewAuthHandler(db, cfg.Web.Secret).Register(e)

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
	}))

	NewDeviceHandler(registry).Register(api)
	NewProfileHandler(accountService).Register(api)
	NewUserHandler(accountService).Register(api)
	NewAuditHandler(audit).Register(api)

	return &Server{echo: e, cfg: cfg}
}

// Echo returns the underlying engine, used by tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("admin api listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthcheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}
