// Package relay implements the sync relay: a second, independently
// addressed hub used for cross-machine state replication.
//
// The relay is a flood relay, not a consensus layer: playlist and
// schedule messages from any peer are rebroadcast verbatim to all
// connected peers, with no origin suppression. Echo-back to the sender is
// possible and accepted. A cache of the last-seen state answers join and
// requestState with a fullState snapshot.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/crownemmanuel/proassist/internal/broadcast"
	"github.com/crownemmanuel/proassist/internal/domain"
	"github.com/crownemmanuel/proassist/internal/metrics"
	"github.com/crownemmanuel/proassist/internal/netinfo"
	"github.com/crownemmanuel/proassist/internal/wire"
)

const (
	hubLabel        = "sync"
	serverMode      = "master"
	shutdownTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // peers dial from other machines on the local network
	},
}

// Relay is one sync hub instance. Structurally parallel to the
// presentation hub but with its own broadcast channel, cache, and message
// vocabulary; there is no ordering guarantee between the two hubs.
type Relay struct {
	serverID uuid.UUID
	clock    clockwork.Clock
	hub      *broadcast.Hub

	// connectedClientCount by paired increment/decrement.
	clients atomic.Int32

	cacheMu      sync.RWMutex
	playlists    json.RawMessage
	schedule     json.RawMessage
	currentIndex *int

	mu      sync.Mutex
	echoSrv *echo.Echo
	running bool
	port    int
}

func New(clock clockwork.Clock, capacity int) *Relay {
	return &Relay{
		serverID: uuid.New(),
		clock:    clock,
		hub:      broadcast.NewHub(hubLabel, capacity),
	}
}

// Start binds the relay's own port and accepts peers. Bind failure is
// fatal and reported before any background goroutine starts.
func (r *Relay) Start(port int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return "", domain.ErrServerRunning
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("port already in use: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.GET("/sync", r.handlePeer)
	e.Listener = ln

	go func() {
		if err := e.Start(""); err != nil && err != http.ErrServerClosed {
			slog.Error("Sync relay server error", "error", err)
		}
	}()

	r.echoSrv = e
	r.running = true
	r.port = port

	url := fmt.Sprintf("ws://%s:%d/sync", netinfo.LocalIP(), port)
	slog.Info("Sync relay started", "url", url, "server_id", r.serverID.String())
	return url, nil
}

// Stop ends the accept loop without severing connected peers.
func (r *Relay) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return domain.ErrServerNotRunning
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := r.echoSrv.Shutdown(ctx); err != nil {
		slog.Error("Sync relay shutdown error", "error", err)
	}

	r.echoSrv = nil
	r.running = false
	slog.Info("Sync relay stopped", "port", r.port)
	return nil
}

// Info describes the relay to the control station.
func (r *Relay) Info() domain.SyncServerInfo {
	r.mu.Lock()
	running, port := r.running, r.port
	r.mu.Unlock()

	return domain.SyncServerInfo{
		Running:              running,
		Port:                 port,
		LocalIP:              netinfo.LocalIP(),
		ConnectedClientCount: int(r.clients.Load()),
	}
}

func (r *Relay) handlePeer(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	count := r.clients.Add(1)
	metrics.ConnectedClients.WithLabelValues(hubLabel).Inc()
	defer func() {
		r.clients.Add(-1)
		metrics.ConnectedClients.WithLabelValues(hubLabel).Dec()
	}()

	// Unicast welcome before the forwarder owns the write side.
	welcome, err := json.Marshal(wire.Welcome{
		Type:                 wire.TypeWelcome,
		ServerID:             r.serverID.String(),
		ServerMode:           serverMode,
		ConnectedClientCount: int(count),
	})
	if err == nil {
		_ = conn.SetWriteDeadline(r.clock.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, welcome); err != nil {
			_ = conn.Close()
			return nil
		}
	}

	sub := r.hub.Subscribe()
	forwarder := broadcast.NewForwarder(conn, sub, r.clock)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		r.dispatch(data)
	}

	forwarder.Stop()

	return nil
}

// dispatch routes one peer envelope. Malformed envelopes are dropped
// silently; the peer stays connected.
func (r *Relay) dispatch(data []byte) {
	in, err := wire.DecodeSyncInbound(data)
	if err != nil {
		metrics.DecodeFailuresTotal.WithLabelValues(hubLabel).Inc()
		slog.Debug("Dropping malformed sync envelope", "error", err)
		return
	}

	switch in.Type {
	case wire.TypeJoin:
		slog.Debug("Peer joined", "client_mode", in.ClientMode, "client_id", in.ClientID)
		r.publishFullState(true, true)

	case wire.TypeRequestState:
		r.publishFullState(in.WantPlaylists, in.WantSchedule)

	case wire.TypeSchedule:
		r.cacheSchedule(in.Schedule, in.CurrentSessionIndex)
		r.hub.Publish(data)

	case wire.TypeFullState:
		r.cacheFullState(in)
		r.hub.Publish(data)

	case wire.TypePlaylistItem, wire.TypePlaylistDelete:
		// Opaque payloads: relayed without inspection, cache untouched.
		r.hub.Publish(data)

	default:
		slog.Debug("Dropping sync envelope of unknown kind", "type", in.Type)
	}
}

// publishFullState broadcasts the cached state. A field that was not
// requested, or never seen, stays absent on the wire rather than being
// defaulted to an empty container.
func (r *Relay) publishFullState(wantPlaylists, wantSchedule bool) {
	r.cacheMu.RLock()
	state := wire.FullState{Type: wire.TypeFullState}
	if wantPlaylists && r.playlists != nil {
		state.Playlists = r.playlists
	}
	if wantSchedule && r.schedule != nil {
		state.Schedule = r.schedule
		state.CurrentSessionIndex = r.currentIndex
	}
	r.cacheMu.RUnlock()

	data, err := json.Marshal(state)
	if err != nil {
		slog.Error("Failed to marshal full state", "error", err)
		return
	}
	r.hub.Publish(data)
}

func (r *Relay) cacheSchedule(schedule json.RawMessage, currentIndex *int) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if schedule != nil {
		r.schedule = schedule
	}
	r.currentIndex = currentIndex
}

func (r *Relay) cacheFullState(in wire.SyncInbound) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if in.Playlists != nil {
		r.playlists = in.Playlists
	}
	if in.Schedule != nil {
		r.schedule = in.Schedule
		r.currentIndex = in.CurrentSessionIndex
	}
}
