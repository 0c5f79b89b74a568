package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is not in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrServerRunning is returned when starting a hub that is already bound.
	ErrServerRunning = errors.New("server already running")

	// ErrServerNotRunning is returned when stopping a hub that never started.
	ErrServerNotRunning = errors.New("server not running")
)
