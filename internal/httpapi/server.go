// Package httpapi exposes the account service over HTTP: signup, login,
// profile retrieval, and profile-image replacement, plus a health probe.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	address string
	logger  logging.Logger
	echo    *echo.Echo
}

func NewServer(address string, logger logging.Logger, svc UserService, secretKey string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(RequestID())
	e.Use(RequestLogger(logger))

	h := NewHandler(logger.With("module", "httpapi"), svc)

	e.GET("/healthz", h.Health)
	e.POST("/signup", h.SignUp)
	e.POST("/login", h.Login)

	protected := e.Group("", BearerAuth([]byte(secretKey)))
	protected.GET("/profile", h.Profile)
	protected.PUT("/upload-image", h.UploadImage)

	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		echo:    e,
	}
}

func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
