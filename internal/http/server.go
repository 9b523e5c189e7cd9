// Package http provides the HTTP server hosting the lookup API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/keepitcut/linked-profiles/internal/config"
	profilesHTTP "github.com/keepitcut/linked-profiles/internal/profiles/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with routes and middleware wired. The
// httpMetrics middleware is optional; pass nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	lookupHandler *profilesHTTP.LookupHandler,
	httpMetrics gin.HandlerFunc,
	logger *slog.Logger,
) *Server {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if httpMetrics != nil {
		router.Use(httpMetrics)
	}

	// /lookup is a legacy alias kept for deployed agent configurations.
	router.POST("/get", lookupHandler.LookupHandler)
	router.POST("/lookup", lookupHandler.LookupHandler)
	router.GET("/health", HealthHandler(cfg.EnvironmentName, cfg.LocationName, cfg.ServiceName))

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// HealthHandler reports the service identity for deployment checks. Always
// HTTP 200; the payload labels which environment and location is answering.
func HealthHandler(environment, location, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": environment,
			"location":    location,
			"service":     service,
		})
	}
}
