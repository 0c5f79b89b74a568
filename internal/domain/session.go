package domain

import "time"

// SlideItem is the leaf content unit of a slide. A sub-item renders
// indented under the slide's parent line.
type SlideItem struct {
	Text      string `json:"text"`
	IsSubItem bool   `json:"isSubItem"`
}

// Slide is one display unit. Color is drawn from the fixed 8-entry
// palette in the slides package, cycled by index during segmentation.
type Slide struct {
	Items []SlideItem `json:"items"`
	Color string      `json:"color"`
}

// Session is an authored block of presentation text together with the
// slides derived from it. Slides are always a full regeneration from
// RawText, never a diff, so re-broadcasting a session is idempotent.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slides    []Slide   `json:"slides"`
	RawText   string    `json:"rawText"`
	CreatedAt time.Time `json:"createdAt"`
}

// PinnedTranscriptionClient marks a transcription source the operator has
// pinned so viewers follow it preferentially.
type PinnedTranscriptionClient struct {
	ClientID string    `json:"clientId"`
	Label    string    `json:"label,omitempty"`
	PinnedAt time.Time `json:"pinnedAt"`
}
