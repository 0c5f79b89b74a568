package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/crownemmanuel/proassist/internal/metrics"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 30 * time.Second
	pongDeadline  = 60 * time.Second
)

// Forwarder relays every message from a subscription verbatim to one
// WebSocket connection until a send fails or Stop is called. It owns all
// writes to the connection; the accompanying reader goroutine only reads.
type Forwarder struct {
	conn     *websocket.Conn
	sub      *Subscription
	clock    clockwork.Clock
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewForwarder starts forwarding sub to conn. The caller keeps ownership
// of the read side of conn.
func NewForwarder(conn *websocket.Conn, sub *Subscription, clock clockwork.Clock) *Forwarder {
	f := &Forwarder{
		conn:  conn,
		sub:   sub,
		clock: clock,
		done:  make(chan struct{}),
	}
	f.configurePongHandler()
	f.wg.Add(1)
	go f.run()
	return f
}

func (f *Forwarder) run() {
	ticker := f.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer f.wg.Done()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.Chan():
			f.updateWriteDeadline()
			if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-f.sub.Ready():
			for {
				msg, ok := f.sub.TryNext()
				if !ok {
					break
				}
				start := f.clock.Now()
				f.updateWriteDeadline()
				if err := f.conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
					return
				}
				metrics.MessageSendDuration.Observe(f.clock.Since(start).Seconds())
			}
		}
	}
}

// Stop cancels forwarding, detaches the subscription, and closes the
// connection. Safe to call more than once.
func (f *Forwarder) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
		f.wg.Wait()
		f.sub.Close()
		_ = f.conn.Close()
	})
}

func (f *Forwarder) configurePongHandler() {
	f.updateReadDeadline()
	f.conn.SetPongHandler(func(string) error {
		f.updateReadDeadline()
		return nil
	})
}

func (f *Forwarder) updateWriteDeadline() {
	_ = f.conn.SetWriteDeadline(f.clock.Now().Add(writeDeadline))
}

func (f *Forwarder) updateReadDeadline() {
	_ = f.conn.SetReadDeadline(f.clock.Now().Add(pongDeadline))
}
