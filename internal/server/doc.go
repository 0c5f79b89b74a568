// Package server hosts the presentation hub's network surface: the
// WebSocket endpoint every control and viewer client connects to, the
// read-only JSON projections of store state, and a small gated HTTP
// surface that triggers side effects only through control-surface entry
// points.
package server
