// Package domain defines the core domain types shared across the hub.
//
// This package contains concept-oriented files (session.go, schedule.go,
// display.go, errors.go) with shared types only. No implementation code -
// just the entities the store owns and the hubs broadcast. Keeping types
// here prevents circular imports between the store, the wire vocabulary,
// and the servers.
package domain
