package domain

// ScheduleItem is one entry in the run-of-show schedule.
type ScheduleItem struct {
	ID           string `json:"id"`
	SessionLabel string `json:"sessionLabel"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Duration     int    `json:"duration"`
	Minister     string `json:"minister,omitempty"`
}

// ScheduleState is the full run-of-show record. CurrentSessionIndex, when
// present, always indexes validly into Schedule; the store clears it
// otherwise.
type ScheduleState struct {
	Schedule            []ScheduleItem `json:"schedule"`
	CurrentSessionIndex *int           `json:"currentSessionIndex,omitempty"`
}

// TimerState is a pushed countdown snapshot. The hub never runs the clock
// itself; the control station pushes replacement snapshots.
type TimerState struct {
	IsRunning   bool   `json:"isRunning"`
	SecondsLeft int    `json:"secondsLeft"`
	Label       string `json:"label,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	IsOverrun   bool   `json:"isOverrun"`
}
