package domain

import "encoding/json"

// Scripture is the verse currently projected on the audience display.
type Scripture struct {
	VerseText string `json:"verseText"`
	Reference string `json:"reference"`
}

// DisplayState is the audience display projection. Settings is an opaque
// blob owned by the display client; the hub carries it without inspecting
// it.
type DisplayState struct {
	Scripture          Scripture       `json:"scripture"`
	AuxiliarySlideText []string        `json:"auxiliarySlideText"`
	Settings           json.RawMessage `json:"settings,omitempty"`
}

// ServerInfo describes the presentation hub to the control surface.
type ServerInfo struct {
	Sessions []Session `json:"sessions"`
	Running  bool      `json:"running"`
	Port     int       `json:"port"`
	LocalIP  string    `json:"localIp"`
}

// SyncServerInfo describes the sync relay.
type SyncServerInfo struct {
	Running              bool   `json:"running"`
	Port                 int    `json:"port"`
	LocalIP              string `json:"localIp"`
	ConnectedClientCount int    `json:"connectedClientCount"`
}

// Topic is a join target with its own snapshot semantics.
type Topic string

const (
	TopicSessions Topic = "sessions"
	TopicSchedule Topic = "schedule"
	TopicTimer    Topic = "timer"
	TopicDisplay  Topic = "display"
)
