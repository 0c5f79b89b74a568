// Package store holds the authoritative in-memory record of sessions,
// schedule, timer, display, and pinned transcription clients.
//
// Every entity is guarded by its own lock, and no lock is ever held
// across network I/O: callers take serialized snapshots out of the store
// and publish them afterwards. Entities live exactly as long as the hub
// process; there is no persistence and no background expiry.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/crownemmanuel/proassist/internal/domain"
	"github.com/crownemmanuel/proassist/internal/metrics"
	"github.com/crownemmanuel/proassist/internal/slides"
	"github.com/crownemmanuel/proassist/internal/wire"
)

type Store struct {
	clock clockwork.Clock

	sessionsMu sync.RWMutex
	sessions   map[string]domain.Session

	scheduleMu sync.RWMutex
	schedule   domain.ScheduleState

	timerMu sync.RWMutex
	timer   domain.TimerState

	displayMu sync.RWMutex
	display   domain.DisplayState

	pinnedMu sync.RWMutex
	pinned   map[string]domain.PinnedTranscriptionClient

	// Coalesces concurrent snapshot marshals for the same topic.
	snapshots singleflight.Group
}

func New(clock clockwork.Clock) *Store {
	return &Store{
		clock:    clock,
		sessions: make(map[string]domain.Session),
		pinned:   make(map[string]domain.PinnedTranscriptionClient),
	}
}

// UpsertSession re-derives slides from rawText and creates or replaces
// the session. CreatedAt is fixed at creation and survives replacement.
// The returned flag reports whether the session is new.
func (s *Store) UpsertSession(id, name, rawText string) (domain.Session, bool) {
	derived := slides.Segment(rawText)

	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	existing, ok := s.sessions[id]
	if ok {
		existing.Name = name
		existing.RawText = rawText
		existing.Slides = derived
		s.sessions[id] = existing
		return existing, false
	}

	session := domain.Session{
		ID:        id,
		Name:      name,
		Slides:    derived,
		RawText:   rawText,
		CreatedAt: s.clock.Now(),
	}
	s.sessions[id] = session
	metrics.SessionsCurrent.Set(float64(len(s.sessions)))
	return session, true
}

// DeleteSession removes a session. Deleting an unknown id is a no-op.
func (s *Store) DeleteSession(id string) bool {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	metrics.SessionsCurrent.Set(float64(len(s.sessions)))
	return true
}

// Session returns one session by id.
func (s *Store) Session(id string) (domain.Session, bool) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// ListSessions returns all sessions ordered by creation time, oldest
// first, with id as the tiebreaker.
func (s *Store) ListSessions() []domain.Session {
	s.sessionsMu.RLock()
	out := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	s.sessionsMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UpdateSchedule replaces the whole run-of-show record. A currentIndex
// that does not index validly into the schedule is cleared.
func (s *Store) UpdateSchedule(items []domain.ScheduleItem, currentIndex *int) domain.ScheduleState {
	if currentIndex != nil && (*currentIndex < 0 || *currentIndex >= len(items)) {
		currentIndex = nil
	}

	s.scheduleMu.Lock()
	defer s.scheduleMu.Unlock()
	s.schedule = domain.ScheduleState{Schedule: items, CurrentSessionIndex: currentIndex}
	return s.schedule
}

// Schedule returns the current run-of-show record.
func (s *Store) Schedule() domain.ScheduleState {
	s.scheduleMu.RLock()
	defer s.scheduleMu.RUnlock()
	return s.schedule
}

// UpdateTimer replaces the pushed countdown snapshot.
func (s *Store) UpdateTimer(t domain.TimerState) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.timer = t
}

// Timer returns the current countdown snapshot.
func (s *Store) Timer() domain.TimerState {
	s.timerMu.RLock()
	defer s.timerMu.RUnlock()
	return s.timer
}

// UpdateDisplay replaces the audience display projection.
func (s *Store) UpdateDisplay(d domain.DisplayState) {
	s.displayMu.Lock()
	defer s.displayMu.Unlock()
	s.display = d
}

// Display returns the current audience display projection.
func (s *Store) Display() domain.DisplayState {
	s.displayMu.RLock()
	defer s.displayMu.RUnlock()
	return s.display
}

// PinClient pins a transcription source. Re-pinning an already pinned
// client refreshes its label but keeps the original pin time.
func (s *Store) PinClient(clientID, label string) domain.PinnedTranscriptionClient {
	s.pinnedMu.Lock()
	defer s.pinnedMu.Unlock()

	if existing, ok := s.pinned[clientID]; ok {
		existing.Label = label
		s.pinned[clientID] = existing
		return existing
	}

	pin := domain.PinnedTranscriptionClient{
		ClientID: clientID,
		Label:    label,
		PinnedAt: s.clock.Now(),
	}
	s.pinned[clientID] = pin
	return pin
}

// UnpinClient removes a pinned transcription source.
func (s *Store) UnpinClient(clientID string) bool {
	s.pinnedMu.Lock()
	defer s.pinnedMu.Unlock()

	if _, ok := s.pinned[clientID]; !ok {
		return false
	}
	delete(s.pinned, clientID)
	return true
}

// PinnedClients returns all pinned transcription sources.
func (s *Store) PinnedClients() []domain.PinnedTranscriptionClient {
	s.pinnedMu.RLock()
	defer s.pinnedMu.RUnlock()

	out := make([]domain.PinnedTranscriptionClient, 0, len(s.pinned))
	for _, pin := range s.pinned {
		out = append(out, pin)
	}
	return out
}

// SnapshotForJoin serializes the current-state event for one topic.
// Concurrent joins on the same topic share one marshal via singleflight.
// The sessions topic is keyed per session; use SnapshotSession.
func (s *Store) SnapshotForJoin(topic domain.Topic) ([]byte, error) {
	switch topic {
	case domain.TopicSchedule, domain.TopicTimer, domain.TopicDisplay:
	default:
		return nil, fmt.Errorf("no join snapshot for topic %q", topic)
	}

	data, err, _ := s.snapshots.Do(string(topic), func() (any, error) {
		switch topic {
		case domain.TopicSchedule:
			state := s.Schedule()
			return json.Marshal(wire.ScheduleUpdate{
				Type:                wire.TypeScheduleUpdate,
				Schedule:            state.Schedule,
				CurrentSessionIndex: state.CurrentSessionIndex,
			})
		case domain.TopicTimer:
			return json.Marshal(wire.TimerUpdate{Type: wire.TypeTimerUpdate, Timer: s.Timer()})
		default:
			return json.Marshal(wire.DisplayUpdate{Type: wire.TypeDisplayUpdate, Display: s.Display()})
		}
	})
	if err != nil {
		return nil, err
	}

	metrics.SnapshotJoinsTotal.WithLabelValues(string(topic)).Inc()
	return data.([]byte), nil
}

// SnapshotSession serializes the slidesUpdate event for one session.
func (s *Store) SnapshotSession(id string) ([]byte, error) {
	data, err, _ := s.snapshots.Do("session:"+id, func() (any, error) {
		session, ok := s.Session(id)
		if !ok {
			return nil, domain.ErrSessionNotFound
		}
		return json.Marshal(wire.SlidesUpdate{
			Type:      wire.TypeSlidesUpdate,
			SessionID: session.ID,
			Name:      session.Name,
			Slides:    session.Slides,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.SnapshotJoinsTotal.WithLabelValues(string(domain.TopicSessions)).Inc()
	return data.([]byte), nil
}
