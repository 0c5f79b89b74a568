package wire

import (
	"encoding/json"
	"fmt"
)

// Sync relay envelope kinds. The relay has its own vocabulary, disjoint
// from the presentation hub's.
const (
	TypeWelcome        = "welcome"
	TypeJoin           = "join"
	TypeRequestState   = "requestState"
	TypePlaylistItem   = "playlistItem"
	TypePlaylistDelete = "playlistDelete"
	TypeSchedule       = "schedule"
	TypeFullState      = "fullState"
)

// Welcome is unicast to every peer immediately on connect.
type Welcome struct {
	Type                 string `json:"type"`
	ServerID             string `json:"serverId"`
	ServerMode           string `json:"serverMode"`
	ConnectedClientCount int    `json:"connectedClientCount"`
}

// SyncInbound is the decoded form of a peer envelope. Schedule and
// Playlists stay opaque: the relay caches and re-emits them without
// schema validation.
type SyncInbound struct {
	Type                string          `json:"type"`
	ClientMode          string          `json:"clientMode"`
	ClientID            string          `json:"clientId"`
	WantPlaylists       bool            `json:"wantPlaylists"`
	WantSchedule        bool            `json:"wantSchedule"`
	Playlists           json.RawMessage `json:"playlists"`
	Schedule            json.RawMessage `json:"schedule"`
	CurrentSessionIndex *int            `json:"currentSessionIndex"`
}

// DecodeSyncInbound parses a peer envelope.
func DecodeSyncInbound(data []byte) (SyncInbound, error) {
	var in SyncInbound
	if err := json.Unmarshal(data, &in); err != nil {
		return SyncInbound{}, fmt.Errorf("decode sync envelope: %w", err)
	}
	if in.Type == "" {
		return SyncInbound{}, fmt.Errorf("decode sync envelope: missing type")
	}
	return in, nil
}

// FullState is the relay's cached state. An omitted request flag leaves
// the corresponding field absent on the wire, never an empty container.
type FullState struct {
	Type                string          `json:"type"`
	Playlists           json.RawMessage `json:"playlists,omitempty"`
	Schedule            json.RawMessage `json:"schedule,omitempty"`
	CurrentSessionIndex *int            `json:"currentSessionIndex,omitempty"`
}
