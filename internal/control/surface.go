// Package control implements the control surface that owns the
// presentation hub: the command entry points the desktop control station
// calls, plus hub lifecycle (bind, serve, stop).
//
// Hubs are explicit instances passed by handle; there is no ambient
// global hub. One hub per port is the supported lifecycle.
package control

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/crownemmanuel/proassist/internal/broadcast"
	"github.com/crownemmanuel/proassist/internal/domain"
	"github.com/crownemmanuel/proassist/internal/store"
	"github.com/crownemmanuel/proassist/internal/wire"
)

// Surface mutates the store and re-broadcasts the resulting events. Every
// mutation follows the same shape: store write first (entity-scoped lock,
// released before I/O), then publish the re-serialized event to the hub.
type Surface struct {
	store      *store.Store
	hub        *broadcast.Hub
	apiEnabled atomic.Bool
}

func NewSurface(st *store.Store, hub *broadcast.Hub) *Surface {
	return &Surface{store: st, hub: hub}
}

// UpsertSession creates or replaces a session from raw text. On creation
// a sessionCreated event precedes the slidesUpdate; replacement publishes
// only the slidesUpdate, so identical upserts never duplicate
// sessionCreated.
func (s *Surface) UpsertSession(id, name, rawText string) (domain.Session, bool) {
	session, created := s.store.UpsertSession(id, name, rawText)

	if created {
		s.publish(wire.SessionCreated{Type: wire.TypeSessionCreated, Session: session})
	}
	s.publish(wire.SlidesUpdate{
		Type:      wire.TypeSlidesUpdate,
		SessionID: session.ID,
		Name:      session.Name,
		Slides:    session.Slides,
	})
	return session, created
}

// ApplyTextUpdate is the inbound textUpdate path: it keeps the existing
// session name, defaulting to the id for a session created on the fly.
func (s *Surface) ApplyTextUpdate(id, text string) domain.Session {
	name := id
	if existing, ok := s.store.Session(id); ok {
		name = existing.Name
	}
	session, _ := s.UpsertSession(id, name, text)
	return session
}

// DeleteSession removes a session and announces the deletion.
func (s *Surface) DeleteSession(id string) bool {
	if !s.store.DeleteSession(id) {
		return false
	}
	s.publish(wire.SessionDeleted{Type: wire.TypeSessionDeleted, SessionID: id})
	return true
}

// ListSessions returns all sessions, oldest first.
func (s *Surface) ListSessions() []domain.Session {
	return s.store.ListSessions()
}

// UpdateSchedule replaces the run-of-show record and broadcasts it.
func (s *Surface) UpdateSchedule(items []domain.ScheduleItem, currentIndex *int) domain.ScheduleState {
	state := s.store.UpdateSchedule(items, currentIndex)
	s.publish(wire.ScheduleUpdate{
		Type:                wire.TypeScheduleUpdate,
		Schedule:            state.Schedule,
		CurrentSessionIndex: state.CurrentSessionIndex,
	})
	return state
}

// UpdateTimer replaces the countdown snapshot and broadcasts it.
func (s *Surface) UpdateTimer(t domain.TimerState) {
	s.store.UpdateTimer(t)
	s.publish(wire.TimerUpdate{Type: wire.TypeTimerUpdate, Timer: t})
}

// UpdateDisplay replaces the display projection and broadcasts it.
func (s *Surface) UpdateDisplay(d domain.DisplayState) {
	s.store.UpdateDisplay(d)
	s.publish(wire.DisplayUpdate{Type: wire.TypeDisplayUpdate, Display: d})
}

// Schedule returns the current run-of-show record.
func (s *Surface) Schedule() domain.ScheduleState { return s.store.Schedule() }

// Timer returns the current countdown snapshot.
func (s *Surface) Timer() domain.TimerState { return s.store.Timer() }

// Display returns the current display projection.
func (s *Surface) Display() domain.DisplayState { return s.store.Display() }

// JoinTopic publishes the topic's current-state snapshot to every
// subscriber. Re-broadcast is idempotent, so flooding the snapshot is
// cheaper than tracking per-connection replay.
func (s *Surface) JoinTopic(topic domain.Topic) error {
	snapshot, err := s.store.SnapshotForJoin(topic)
	if err != nil {
		return err
	}
	s.hub.Publish(snapshot)
	return nil
}

// JoinSession publishes the session's slidesUpdate snapshot.
func (s *Surface) JoinSession(id string) error {
	snapshot, err := s.store.SnapshotSession(id)
	if err != nil {
		return err
	}
	s.hub.Publish(snapshot)
	return nil
}

// PublishRaw publishes a pre-serialized envelope verbatim. Used for the
// transcriptionStream passthrough and as the control station's escape
// hatch; the hub never validates the payload schema.
func (s *Surface) PublishRaw(message []byte) {
	s.hub.Publish(message)
}

// PinTranscriptionClient pins a transcription source.
func (s *Surface) PinTranscriptionClient(clientID, label string) domain.PinnedTranscriptionClient {
	return s.store.PinClient(clientID, label)
}

// UnpinTranscriptionClient removes a pinned transcription source.
func (s *Surface) UnpinTranscriptionClient(clientID string) bool {
	return s.store.UnpinClient(clientID)
}

// PinnedTranscriptionClients lists pinned transcription sources.
func (s *Surface) PinnedTranscriptionClients() []domain.PinnedTranscriptionClient {
	return s.store.PinnedClients()
}

// SetAPIEnabled gates the HTTP side-effect endpoints.
func (s *Surface) SetAPIEnabled(enabled bool) {
	s.apiEnabled.Store(enabled)
}

// APIEnabled reports whether the HTTP side-effect endpoints are gated on.
func (s *Surface) APIEnabled() bool {
	return s.apiEnabled.Load()
}

func (s *Surface) publish(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		// Best-effort fan-out: a live presentation keeps running.
		slog.Error("Failed to marshal event", "error", err)
		return
	}
	s.hub.Publish(data)
}
