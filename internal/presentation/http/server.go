package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/walletops/yoyow_bridge/internal/application/services"
	"github.com/walletops/yoyow_bridge/internal/config"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"github.com/walletops/yoyow_bridge/internal/presentation/http/handlers"
	"github.com/walletops/yoyow_bridge/pkg/logger"
)

// Server is the operator-facing status/metrics HTTP server.
type Server struct {
	config *config.Config
	server *echo.Echo
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	scheduler *services.ReconcileScheduler,
	service *services.ReconcileService,
	withdrawRepo domainRepos.WithdrawRequestRepository,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(logger.LoggingMiddleware)

	e.GET("/healthz", handlers.HeartBeat)
	e.GET("/status", handlers.Status(scheduler, service, withdrawRepo))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{
		config: cfg,
		server: e,
	}
}

// Start starts the HTTP server; it blocks until the server stops.
func (s *Server) Start() error {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	logger.GetLogger().Infof("Starting status server on port %s", port)

	if err := s.server.Start(":" + port); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
