package store

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/agentscaffold/dashboard/internal/metrics"
	"github.com/agentscaffold/dashboard/internal/model/message"
)

// DefaultCap is the per-kind retention cap applied when none is configured.
const DefaultCap = 100

var ErrUnknownKind = errors.New("unknown message kind")

// Store keeps a bounded, categorized in-memory history of dashboard
// messages. Each kind owns an independent FIFO sequence capped at the
// configured size; inserting past the cap evicts the oldest entry of
// that kind. Safe for concurrent use.
type Store struct {
	cap     int
	seq     atomic.Uint64
	buckets map[message.Kind]*bucket
}

type bucket struct {
	mu       sync.RWMutex
	msgs     []message.Message
	inserted uint64
}

// New creates a store retaining at most capPerKind messages per kind.
// Non-positive values fall back to DefaultCap.
func New(capPerKind int) *Store {
	if capPerKind <= 0 {
		capPerKind = DefaultCap
	}
	buckets := make(map[message.Kind]*bucket, len(message.Kinds()))
	for _, k := range message.Kinds() {
		buckets[k] = &bucket{msgs: make([]message.Message, 0, capPerKind)}
	}
	return &Store{cap: capPerKind, buckets: buckets}
}

// Cap returns the per-kind retention cap.
func (s *Store) Cap() int { return s.cap }

// Insert appends msg to its kind's history, assigning an ID, a UTC
// timestamp and an insertion sequence number when absent, and evicts the
// oldest entry of that kind once the cap is exceeded. The returned value
// is the record as stored.
func (s *Store) Insert(msg message.Message) (message.Message, error) {
	b, ok := s.buckets[msg.Kind]
	if !ok {
		return message.Message{}, ErrUnknownKind
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.Seq = s.seq.Add(1)

	b.mu.Lock()
	b.msgs = append(b.msgs, msg)
	b.inserted++
	if evicted := len(b.msgs) - s.cap; evicted > 0 {
		copy(b.msgs, b.msgs[evicted:])
		b.msgs = b.msgs[:s.cap]
		metrics.MessagesEvicted.WithLabelValues(string(msg.Kind)).Add(float64(evicted))
	}
	b.mu.Unlock()

	return msg, nil
}

// ByKind returns up to limit retained messages of one kind, newest
// first. A non-positive limit returns the full retained history.
func (s *Store) ByKind(kind message.Kind, limit int) ([]message.Message, error) {
	b, ok := s.buckets[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	b.mu.RLock()
	n := len(b.msgs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]message.Message, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, b.msgs[i])
	}
	b.mu.RUnlock()

	return out, nil
}

// Recent returns up to limit retained messages across every kind,
// ordered by CreatedAt descending with insertion order breaking ties.
// A non-positive limit returns everything retained.
func (s *Store) Recent(limit int) []message.Message {
	all := s.Snapshot()
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// Snapshot returns every retained message, newest first. All kind locks
// are held together so the view is not torn across kinds.
func (s *Store) Snapshot() []message.Message {
	kinds := message.Kinds()
	for _, k := range kinds {
		s.buckets[k].mu.RLock()
	}

	total := 0
	for _, k := range kinds {
		total += len(s.buckets[k].msgs)
	}
	all := make([]message.Message, 0, total)
	for _, k := range kinds {
		all = append(all, s.buckets[k].msgs...)
	}

	for _, k := range kinds {
		s.buckets[k].mu.RUnlock()
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Seq > all[j].Seq
	})
	return all
}

// CountByKind reports the number of retained messages per kind.
func (s *Store) CountByKind() map[message.Kind]int {
	counts := make(map[message.Kind]int, len(s.buckets))
	for k, b := range s.buckets {
		b.mu.RLock()
		counts[k] = len(b.msgs)
		b.mu.RUnlock()
	}
	return counts
}

// InsertedByKind reports the lifetime number of inserts per kind,
// including messages since evicted.
func (s *Store) InsertedByKind() map[message.Kind]uint64 {
	counts := make(map[message.Kind]uint64, len(s.buckets))
	for k, b := range s.buckets {
		b.mu.RLock()
		counts[k] = b.inserted
		b.mu.RUnlock()
	}
	return counts
}
