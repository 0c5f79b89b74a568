// Package broadcast implements the bounded, lossy fan-out channel backing
// one real-time endpoint.
//
// Each subscriber owns a fixed-capacity ring; a subscriber that falls a
// full capacity behind loses its oldest unread messages rather than
// blocking publishers. Messages carry a monotonic per-hub sequence number
// so a consumer could detect the gap. Per-connection write goroutines
// handle slow clients gracefully.
package broadcast
