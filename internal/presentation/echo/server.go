package echo

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	echofw "github.com/labstack/echo/v4"
	"github.com/mirola777/idempotent-charges/internal/application/use_cases"
	"github.com/mirola777/idempotent-charges/internal/utils/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	echo   *echofw.Echo
	config *config.Config
	logger *zap.Logger
}

func NewServer(cfg *config.Config, container *use_cases.Container, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	e := echofw.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	ConfigureRoutes(e, container, gatherer, logger)

	return &Server{
		echo:   e,
		config: cfg,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until SIGINT, SIGTERM or SIGQUIT, then shuts down within
// GracefulTimeout. The returned channel is closed once shutdown is done.
func (s *Server) Start() <-chan error {
	errC := make(chan error, 1)

	go func() {
		if err := s.echo.Start(":" + s.config.AppPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		<-quit

		s.logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), s.config.GracefulTimeout)
		defer cancel()

		if err := s.echo.Shutdown(ctx); err != nil {
			errC <- err
		}
		close(errC)
	}()

	s.logger.Info("server started", zap.String("port", s.config.AppPort))
	return errC
}
