package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// The real-time endpoint every control and viewer client uses
	s.echo.GET("/ws", s.handleWebSocket)

	// Read-only projections of store state
	s.echo.GET("/api/sessions", s.handleListSessions)
	s.echo.GET("/api/schedule", s.handleGetSchedule)

	// Side-effect endpoints: gated by the API-enabled flag and rate limited
	limiter := newRateLimiter(s.config.APIRate, s.config.APIBurst)
	s.echo.POST("/api/scripture", s.handleGoLiveScripture, s.requireAPIEnabled, limiter)
	s.echo.POST("/api/timer", s.handleStartTimer, s.requireAPIEnabled, limiter)
}
