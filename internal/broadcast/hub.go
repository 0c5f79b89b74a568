package broadcast

import (
	"context"
	"errors"
	"sync"

	"github.com/crownemmanuel/proassist/internal/metrics"
)

// DefaultCapacity is the per-subscriber ring size used when the caller
// passes a non-positive capacity.
const DefaultCapacity = 100

// ErrSubscriptionClosed is returned by Next after Close.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Message is one published payload with its hub-wide sequence number.
// Sequence numbers are monotonic within a hub; a jump larger than one
// between consecutive messages means the subscriber fell behind and the
// ring evicted the difference.
type Message struct {
	Seq  uint64
	Data []byte
}

// Hub is a bounded multi-subscriber broadcast channel. Publishing with
// zero subscribers is a no-op success. Within one hub, publish order
// equals delivery order for every subscriber; there is no ordering
// guarantee between two hubs.
type Hub struct {
	name     string
	capacity int

	mu   sync.Mutex
	subs map[*Subscription]struct{}
	seq  uint64
}

// NewHub creates a hub. The name labels metrics only.
func NewHub(name string, capacity int) *Hub {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Hub{
		name:     name,
		capacity: capacity,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Publish fans data out to every subscriber and returns the assigned
// sequence number. Serializing publishes under the hub lock is what makes
// delivery order identical for all subscribers.
func (h *Hub) Publish(data []byte) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	msg := Message{Seq: h.seq, Data: data}
	for sub := range h.subs {
		sub.push(msg, h.name)
	}
	metrics.HubPublishedTotal.WithLabelValues(h.name).Inc()
	return h.seq
}

// Subscribe registers a new subscriber. The subscriber sees only messages
// published after this call; join-replay snapshots cover the past.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		hub:    h,
		buf:    make([]Message, 0, h.capacity),
		notify: make(chan struct{}, 1),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	metrics.HubSubscribers.WithLabelValues(h.name).Set(float64(n))
	return sub
}

// SubscriberCount returns the current number of subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()

	metrics.HubSubscribers.WithLabelValues(h.name).Set(float64(n))
}

// Subscription is one subscriber's view of the hub: a drop-oldest ring
// plus a readiness signal.
type Subscription struct {
	hub *Hub

	mu      sync.Mutex
	buf     []Message
	dropped uint64
	closed  bool
	notify  chan struct{}
}

func (s *Subscription) push(msg Message, hubName string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(s.buf) >= s.hub.capacity {
		// Freshness over completeness: evict the oldest unread message.
		s.buf = s.buf[1:]
		s.dropped++
		metrics.HubDroppedTotal.WithLabelValues(hubName).Inc()
	}
	s.buf = append(s.buf, msg)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Ready returns a channel that signals when messages may be pending.
// Pair it with TryNext in a select loop.
func (s *Subscription) Ready() <-chan struct{} {
	return s.notify
}

// TryNext pops the oldest pending message without blocking.
func (s *Subscription) TryNext() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		return Message{}, false
	}
	msg := s.buf[0]
	s.buf = s.buf[1:]
	return msg, true
}

// Next blocks until a message is available, the context is done, or the
// subscription is closed.
func (s *Subscription) Next(ctx context.Context) (Message, error) {
	for {
		s.mu.Lock()
		if len(s.buf) > 0 {
			msg := s.buf[0]
			s.buf = s.buf[1:]
			s.mu.Unlock()
			return msg, nil
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return Message{}, ErrSubscriptionClosed
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}
}

// Dropped reports how many messages this subscriber has lost so far.
func (s *Subscription) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close detaches the subscription from the hub. Pending messages are
// discarded; Next returns ErrSubscriptionClosed.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.buf = nil
	s.mu.Unlock()

	s.hub.unsubscribe(s)

	select {
	case s.notify <- struct{}{}:
	default:
	}
}
