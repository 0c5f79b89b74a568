package domain

// ControlSurface is the hub-facing command interface. The WebSocket
// reader and the gated HTTP layer dispatch through it; they never mutate
// the store directly.
type ControlSurface interface {
	// Session commands
	UpsertSession(id, name, rawText string) (Session, bool)
	ApplyTextUpdate(id, text string) Session
	DeleteSession(id string) bool
	ListSessions() []Session

	// Whole-record replacements
	UpdateSchedule(items []ScheduleItem, currentIndex *int) ScheduleState
	UpdateTimer(t TimerState)
	UpdateDisplay(d DisplayState)
	Schedule() ScheduleState
	Timer() TimerState
	Display() DisplayState

	// Join-replay
	JoinTopic(topic Topic) error
	JoinSession(id string) error

	// Passthrough
	PublishRaw(message []byte)

	// Gated HTTP surface
	APIEnabled() bool
}
