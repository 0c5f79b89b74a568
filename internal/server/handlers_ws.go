package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/crownemmanuel/proassist/internal/broadcast"
	"github.com/crownemmanuel/proassist/internal/domain"
	"github.com/crownemmanuel/proassist/internal/metrics"
	"github.com/crownemmanuel/proassist/internal/wire"
)

const hubLabel = "presentation"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // viewers connect from arbitrary local-network origins
	},
}

func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	metrics.ConnectedClients.WithLabelValues(hubLabel).Inc()
	defer metrics.ConnectedClients.WithLabelValues(hubLabel).Dec()

	sub := s.hub.Subscribe()
	forwarder := broadcast.NewForwarder(conn, sub, s.clock)

	// Read pump: decodes inbound envelopes until the client disconnects.
	// When it ends, the forwarder is cancelled; there is no other
	// unsubscribe bookkeeping.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		s.dispatch(data)
	}

	forwarder.Stop()

	return nil
}

// dispatch routes one inbound envelope. A malformed envelope is dropped
// silently and the connection stays open; no error reply is sent.
func (s *Server) dispatch(data []byte) {
	in, err := wire.DecodeInbound(data)
	if err != nil {
		metrics.DecodeFailuresTotal.WithLabelValues(hubLabel).Inc()
		slog.Debug("Dropping malformed envelope", "error", err)
		return
	}

	switch in.Type {
	case wire.TypeTextUpdate:
		s.app.ApplyTextUpdate(in.SessionID, in.Text)

	case wire.TypeJoinSession:
		if err := s.app.JoinSession(in.SessionID); err != nil {
			if !errors.Is(err, domain.ErrSessionNotFound) {
				slog.Warn("Join replay failed", "session_id", in.SessionID, "error", err)
			}
		}

	case wire.TypeJoinSchedule:
		s.joinTopic(domain.TopicSchedule)

	case wire.TypeJoinTimer:
		s.joinTopic(domain.TopicTimer)

	case wire.TypeJoinDisplay:
		s.joinTopic(domain.TopicDisplay)

	case wire.TypeTranscriptionStream:
		// Re-published byte-identical, no store mutation: the payload
		// schema can evolve without hub changes.
		s.app.PublishRaw(data)

	default:
		slog.Debug("Dropping envelope of unknown kind", "type", in.Type)
	}
}

func (s *Server) joinTopic(topic domain.Topic) {
	if err := s.app.JoinTopic(topic); err != nil {
		slog.Warn("Join replay failed", "topic", string(topic), "error", err)
	}
}
