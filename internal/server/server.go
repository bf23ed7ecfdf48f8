package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/internal/analytics"
	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/platform/metrics"
	"github.com/nulzo/scribe/internal/server/middleware"
	v1 "github.com/nulzo/scribe/internal/server/v1"
	"github.com/nulzo/scribe/internal/server/validator"
	"go.uber.org/zap"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	writer    v1.Writer
	analytics analytics.Service
	metrics   *metrics.Metrics
	version   string
	http      *http.Server
}

type Option func(*Server)

// WithAnalytics exposes the usage endpoints backed by service.
func WithAnalytics(service analytics.Service) Option {
	return func(s *Server) {
		s.analytics = service
	}
}

// WithMetrics records HTTP metrics and serves them at the configured path.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

func New(cfg *config.Config, logger *zap.Logger, writer v1.Writer, opts ...Option) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		writer:  writer,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	engine.Use(middleware.RequestID())
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Logger(logger, "/health", s.metricsPath()))
	engine.Use(middleware.CORS(cfg.Server.CORSOrigins))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	if s.metrics != nil {
		engine.Use(s.metrics.Middleware())
	}

	s.SetupRoutes()
	return s
}

func (s *Server) metricsPath() string {
	if s.config.Metrics.Path == "" {
		return "/metrics"
	}
	return s.config.Metrics.Path
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", s.http.Addr), zap.String("env", s.config.Server.Env))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Shutting down server")
	return s.http.Shutdown(shutdownCtx)
}
