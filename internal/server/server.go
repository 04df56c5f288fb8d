// Package server exposes the tax engines as a JSON HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/taxgo/internal/config"
	"go.uber.org/zap"
)

// Config holds the listener and feature settings
type Config struct {
	Addr           string
	DefaultTaxYear int
	EnableMetrics  bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// DefaultConfig returns the settings used by `taxgo serve`
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		DefaultTaxYear: config.DefaultTaxYear,
		EnableMetrics:  true,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
	}
}

// Server wraps the gin router and the http.Server serving it
type Server struct {
	cfg      Config
	registry *config.RulesRegistry
	logger   *zap.Logger
	metrics  *Metrics
	router   *gin.Engine
	srv      *http.Server
}

// New builds the router. A nil logger disables logging.
func New(cfg Config, registry *config.RulesRegistry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTaxYear == 0 {
		cfg.DefaultTaxYear = config.DefaultTaxYear
	}

	s := &Server{cfg: cfg, registry: registry, logger: logger}
	if cfg.EnableMetrics {
		s.metrics = NewMetrics("taxgo")
	}
	s.router = s.routes()
	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(s.logger, "/healthz", "/metrics"), recovery(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.GET("/healthz", s.health)

	v1 := r.Group("/api/v1")
	v1.POST("/liability", s.liability)
	v1.POST("/compare", s.compare)
	v1.POST("/schedule-d", s.scheduleD)
	v1.POST("/state-tax", s.stateTax)
	v1.POST("/projection", s.projection)
	v1.POST("/plan", s.plan)
	v1.POST("/sensitivity", s.sensitivity)
	v1.GET("/rules/:year", s.rules)
	v1.GET("/states", s.states)
	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr), zap.Bool("metrics", s.metrics != nil))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, giving up after 30 seconds
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
