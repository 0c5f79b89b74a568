// Package wire defines the JSON envelope vocabulary exchanged over a
// connection. Every envelope is a JSON object with a discriminant "type"
// field; remaining fields are kind-specific. The presentation hub and the
// sync relay carry disjoint vocabularies (see sync.go).
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/crownemmanuel/proassist/internal/domain"
)

// Inbound envelope kinds (client -> presentation hub).
const (
	TypeTextUpdate          = "textUpdate"
	TypeJoinSession         = "joinSession"
	TypeJoinSchedule        = "joinSchedule"
	TypeJoinTimer           = "joinTimer"
	TypeJoinDisplay         = "joinDisplay"
	TypeTranscriptionStream = "transcriptionStream"
)

// Outbound envelope kinds (presentation hub -> clients).
const (
	TypeSlidesUpdate   = "slidesUpdate"
	TypeSessionCreated = "sessionCreated"
	TypeSessionDeleted = "sessionDeleted"
	TypeScheduleUpdate = "scheduleUpdate"
	TypeTimerUpdate    = "timerUpdate"
	TypeDisplayUpdate  = "displayUpdate"
	TypeError          = "error"
)

// Inbound is the decoded form of a client envelope. Only the fields used
// by the reader's dispatch are typed; transcriptionStream payloads stay in
// the raw bytes and are re-published untouched.
type Inbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// DecodeInbound parses a client envelope. A payload without a type
// discriminant is malformed.
func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("decode envelope: %w", err)
	}
	if in.Type == "" {
		return Inbound{}, fmt.Errorf("decode envelope: missing type")
	}
	return in, nil
}

// SlidesUpdate carries the full regenerated slide list for one session.
type SlidesUpdate struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	Name      string         `json:"name"`
	Slides    []domain.Slide `json:"slides"`
}

// SessionCreated announces a newly created session.
type SessionCreated struct {
	Type    string         `json:"type"`
	Session domain.Session `json:"session"`
}

// SessionDeleted announces a deleted session.
type SessionDeleted struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// ScheduleUpdate carries the full run-of-show record.
type ScheduleUpdate struct {
	Type                string                `json:"type"`
	Schedule            []domain.ScheduleItem `json:"schedule"`
	CurrentSessionIndex *int                  `json:"currentSessionIndex,omitempty"`
}

// TimerUpdate carries the pushed countdown snapshot.
type TimerUpdate struct {
	Type  string            `json:"type"`
	Timer domain.TimerState `json:"timer"`
}

// DisplayUpdate carries the audience display projection.
type DisplayUpdate struct {
	Type    string              `json:"type"`
	Display domain.DisplayState `json:"display"`
}

// ErrorMessage reports a hub-side failure to clients.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
