package server

import (
	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/internal/server/middleware"
	v1 "github.com/nulzo/scribe/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler(s.version)
	s.router.GET("/health", healthHandler.Health)

	if s.metrics != nil {
		s.router.GET(s.metricsPath(), gin.WrapH(s.metrics.Handler()))
	}

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	api := s.router.Group("/v1")
	api.Use(limiter.Middleware())
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	{
		configHandler := v1.NewConfigHandler(s.writer)
		api.GET("/config", configHandler.Get)

		writing := v1.NewWritingHandler(s.writer)
		api.POST("/generate", writing.Generate)
		api.POST("/improve", writing.Improve)
		api.POST("/humanize", writing.Humanize)
		api.POST("/grammar", writing.Grammar)
		api.POST("/fact-check", writing.FactCheck)
		api.POST("/sections", writing.Section)

		if s.analytics != nil {
			analyticsHandler := v1.NewAnalyticsHandler(s.analytics)
			api.GET("/analytics/usage", analyticsHandler.GetUsage)
			api.GET("/analytics/recent", analyticsHandler.GetRecent)
		}
	}
}
