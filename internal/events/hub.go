package events

import (
	"sync"
)

const subscriberBuffer = 128

// Hub fans events out to live subscribers and keeps the most recent ones so
// a reconnecting client can catch up. It implements Sink.
type Hub struct {
	mu       sync.Mutex
	seq      int64
	capacity int
	recent   []Event
	subs     map[*subscription]struct{}
}

type subscription struct {
	target string
	ch     chan Event
}

func (s *subscription) wants(ev Event) bool {
	return s.target == "" || s.target == ev.Target
}

// NewHub returns a hub retaining up to capacity events.
func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 100
	}
	return &Hub{
		capacity: capacity,
		recent:   make([]Event, 0, capacity),
		subs:     make(map[*subscription]struct{}),
	}
}

// Emit stamps ev with the next sequence number, retains it and delivers it
// to matching subscribers. A subscriber whose buffer is full misses the
// event rather than stalling the emitter.
func (h *Hub) Emit(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	ev.ID = h.seq

	if len(h.recent) == h.capacity {
		copy(h.recent, h.recent[1:])
		h.recent = h.recent[:h.capacity-1]
	}
	h.recent = append(h.recent, ev)

	for sub := range h.subs {
		if !sub.wants(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribe registers a live subscription for events about target, or for
// every event when target is empty. The returned cancel function closes the
// channel and may be called more than once.
func (h *Hub) Subscribe(target string) (<-chan Event, func()) {
	sub := &subscription{target: target, ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// SnapshotSince returns retained events with ID greater than lastID, oldest
// first, restricted to target when it is non-empty.
func (h *Hub) SnapshotSince(lastID int64, target string) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	filter := subscription{target: target}
	var out []Event
	for _, ev := range h.recent {
		if ev.ID > lastID && filter.wants(ev) {
			out = append(out, ev)
		}
	}
	return out
}
