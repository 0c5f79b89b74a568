package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/crownemmanuel/proassist/internal/broadcast"
	"github.com/crownemmanuel/proassist/internal/config"
	"github.com/crownemmanuel/proassist/internal/domain"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       domain.ControlSurface
	hub       *broadcast.Hub
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, app domain.ControlSurface, hub *broadcast.Hub, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		hub:       hub,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Serve accepts connections on ln until Shutdown. The caller owns the
// listener bind, so a port conflict surfaces before any goroutine starts.
func (s *Server) Serve(ln net.Listener) error {
	s.echo.Listener = ln
	err := s.echo.Start("")
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the accept loop. Hijacked WebSocket connections are not
// tracked by the HTTP server, so live clients drain on their own
// disconnect instead of being severed.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
