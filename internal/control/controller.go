package control

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crownemmanuel/proassist/internal/broadcast"
	"github.com/crownemmanuel/proassist/internal/config"
	"github.com/crownemmanuel/proassist/internal/domain"
	"github.com/crownemmanuel/proassist/internal/netinfo"
	"github.com/crownemmanuel/proassist/internal/server"
	"github.com/crownemmanuel/proassist/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Controller owns the presentation hub's lifecycle. The embedded Surface
// exposes the command entry points; Start and Stop bound the accept loop.
type Controller struct {
	*Surface

	cfg   *config.Config
	hub   *broadcast.Hub
	store *store.Store
	clock clockwork.Clock

	mu      sync.Mutex
	srv     *server.Server
	running bool
	port    int
}

func NewController(cfg *config.Config, st *store.Store, hub *broadcast.Hub, clock clockwork.Clock) *Controller {
	return &Controller{
		Surface: NewSurface(st, hub),
		cfg:     cfg,
		hub:     hub,
		store:   st,
		clock:   clock,
	}
}

// Start binds the port and begins accepting connections. A bind failure
// is fatal and surfaces here, before any background goroutine starts.
// Returns the WebSocket URL viewers should dial.
func (c *Controller) Start(port int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return "", domain.ErrServerRunning
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("port already in use: %w", err)
	}

	srv := server.NewServer(c.cfg, c.Surface, c.hub, c.clock)
	go func() {
		if err := srv.Serve(ln); err != nil {
			slog.Error("Presentation server error", "error", err)
		}
	}()

	c.srv = srv
	c.running = true
	c.port = port

	url := fmt.Sprintf("ws://%s:%d/ws", netinfo.LocalIP(), port)
	slog.Info("Presentation hub started", "url", url)
	return url, nil
}

// Stop ends the accept loop and releases the socket. Live WebSocket
// connections are not severed; their forwarders are cancelled only by
// their own disconnect.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return domain.ErrServerNotRunning
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.srv.Shutdown(ctx); err != nil {
		slog.Error("Presentation server shutdown error", "error", err)
	}

	c.srv = nil
	c.running = false
	slog.Info("Presentation hub stopped", "port", c.port)
	return nil
}

// GetServerInfo describes the hub to the control station.
func (c *Controller) GetServerInfo() domain.ServerInfo {
	c.mu.Lock()
	running, port := c.running, c.port
	c.mu.Unlock()

	return domain.ServerInfo{
		Sessions: c.store.ListSessions(),
		Running:  running,
		Port:     port,
		LocalIP:  netinfo.LocalIP(),
	}
}

// BroadcastRaw is the control station's escape hatch: it publishes a
// pre-serialized envelope unmodified.
func (c *Controller) BroadcastRaw(message []byte) {
	c.PublishRaw(message)
}
