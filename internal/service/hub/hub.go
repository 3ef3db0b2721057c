package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/metrics"
	"github.com/agentscaffold/dashboard/internal/model/message"
)

const (
	// DefaultHeartbeatInterval is the cadence of the background status push.
	DefaultHeartbeatInterval = 5 * time.Second

	// DefaultBuffer is the per-subscriber outbound event buffer.
	DefaultBuffer = 16
)

// SnapshotFunc builds the periodic heartbeat event. Injected so the hub
// stays decoupled from the read-side services that compute summaries.
type SnapshotFunc func() message.Event

// Subscriber is a handle to one live connection. Events are delivered on
// a buffered channel in FIFO order; the channel is closed when the
// subscriber is removed from the hub.
type Subscriber struct {
	ID string
	ch chan message.Event
}

// Events returns the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan message.Event { return s.ch }

// Hub tracks live subscribers and fans events out to all of them.
// Delivery is best-effort: a subscriber whose buffer is full is dropped
// rather than allowed to stall the ingestion path, and a drop never
// affects the remaining subscribers.
type Hub struct {
	logger   zerolog.Logger
	interval time.Duration
	buffer   int

	mu   sync.Mutex
	subs map[string]*Subscriber
}

// Option configures a Hub.
type Option func(*Hub)

// WithHeartbeatInterval overrides the heartbeat cadence.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.interval = d
		}
	}
}

// WithBuffer overrides the per-subscriber event buffer size.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// New creates a hub.
func New(logger zerolog.Logger, opts ...Option) *Hub {
	h := &Hub{
		logger:   logger.With().Str("component", "hub").Logger(),
		interval: DefaultHeartbeatInterval,
		buffer:   DefaultBuffer,
		subs:     make(map[string]*Subscriber),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new live subscriber and returns its handle.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID: uuid.NewString(),
		ch: make(chan message.Event, h.buffer),
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	n := len(h.subs)
	h.mu.Unlock()

	metrics.SubscribersActive.Set(float64(n))
	h.logger.Debug().Str("subscriber", sub.ID).Int("total", n).Msg("subscribed")
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Calling it
// again for the same ID is a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(sub.ch)
	}
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		metrics.SubscribersActive.Set(float64(n))
		h.logger.Debug().Str("subscriber", id).Int("total", n).Msg("unsubscribed")
	}
}

// Count returns the number of currently registered subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast delivers evt to every registered subscriber exactly once.
// Sends are non-blocking: a subscriber that cannot accept the event
// (slow consumer, full buffer) is unsubscribed on the spot. Broadcasts
// are serialized, which keeps per-subscriber delivery in FIFO order.
func (h *Hub) Broadcast(evt message.Event) {
	h.mu.Lock()
	var dropped int
	for id, sub := range h.subs {
		select {
		case sub.ch <- evt:
		default:
			delete(h.subs, id)
			close(sub.ch)
			dropped++
			metrics.SubscribersDropped.WithLabelValues("overload").Inc()
			h.logger.Warn().Str("subscriber", id).Str("event", evt.Type).Msg("dropping slow subscriber")
		}
	}
	n := len(h.subs)
	h.mu.Unlock()

	metrics.EventsBroadcast.WithLabelValues(evt.Type).Inc()
	if dropped > 0 {
		metrics.SubscribersActive.Set(float64(n))
	}
}

// Run drives the periodic heartbeat push until ctx is cancelled. Each
// tick builds a fresh snapshot event and broadcasts it through the same
// path as ingestion-triggered pushes. snapshot must be safe for
// concurrent use.
func (h *Hub) Run(ctx context.Context, snapshot SnapshotFunc) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Info().Dur("interval", h.interval).Msg("heartbeat broadcaster started")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Msg("heartbeat broadcaster stopped")
			return
		case <-ticker.C:
			h.Broadcast(snapshot())
		}
	}
}
