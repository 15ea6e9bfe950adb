package events

import (
	"sync"
	"time"
)

// Kind enum
type Kind string

const (
	KindSessionStatus  Kind = "session_status"
	KindItemAdded      Kind = "item_added"
	KindThreatDetected Kind = "threat_detected"
)

// Event is one notification on a session's bus.
type Event struct {
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id"`
	Time      time.Time `json:"time"`
	Payload   any       `json:"payload,omitempty"`
}

// Bus is a per-session FIFO broadcast channel. Delivery is FIFO per
// subscriber; publishing never blocks the scan path — events to a subscriber
// whose buffer is full are dropped.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
	buffer int
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{subs: make(map[int]chan Event), buffer: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func unregisters
// it and closes its channel; cancel is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Publish fans the event out to every subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// slow subscriber, drop rather than stall the publisher
		}
	}
}

// Close shuts the bus down and closes all subscriber channels. Called on
// session disconnect.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
