// Package metrics defines the Prometheus collectors for both hubs.
// The hub label distinguishes the presentation hub from the sync relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hub fan-out metrics
var (
	// HubPublishedTotal tracks messages published per hub
	HubPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_published_messages_total",
			Help: "Total messages published per hub",
		},
		[]string{"hub"},
	)

	// HubDroppedTotal tracks messages dropped by slow subscribers (drop-oldest)
	HubDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_dropped_messages_total",
			Help: "Messages evicted from subscriber rings because the subscriber fell behind",
		},
		[]string{"hub"},
	)

	// HubSubscribers tracks current subscriber count per hub
	HubSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hub_subscribers",
			Help: "Current subscriber count per hub",
		},
		[]string{"hub"},
	)
)

// Connection metrics
var (
	// ConnectedClients tracks live WebSocket connections per hub
	ConnectedClients = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connected_clients",
			Help: "Live WebSocket connections per hub",
		},
		[]string{"hub"},
	)

	// DecodeFailuresTotal tracks malformed inbound envelopes (dropped silently)
	DecodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envelope_decode_failures_total",
			Help: "Malformed inbound envelopes dropped per hub",
		},
		[]string{"hub"},
	)

	// MessageSendDuration tracks per-message WebSocket write latency
	MessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)
)

// Store metrics
var (
	// SnapshotJoinsTotal tracks join-replay snapshots served per topic
	SnapshotJoinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_joins_total",
			Help: "Join-replay snapshots served per topic",
		},
		[]string{"topic"},
	)

	// SessionsCurrent tracks the number of sessions held by the store
	SessionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_sessions_current",
			Help: "Number of sessions currently held by the store",
		},
	)
)
