// Package bus implements the in-process publish/subscribe event bus that
// backs the realtime layer. The bus owns a bounded replay buffer of the most
// recent events so that reconnecting clients can catch up, and a registry of
// live subscribers that each receive every published event.
//
// Delivery is best-effort and in-process only: nothing survives a restart,
// and a client that falls behind the buffer window must refetch full state
// from the tracker.
package bus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// BufferSize is the replay buffer capacity. When a publish would exceed it,
// the oldest entries are evicted FIFO.
const BufferSize = 200

// Handler receives one published event. Handlers run synchronously on the
// publisher's goroutine; anything that can block (a transport write) must
// hand off to its own goroutine.
type Handler func(model.Event)

// Subscription is an opaque handle for one registration. Subscribing the
// same handler twice yields two independent subscriptions.
type Subscription struct {
	handler Handler
}

// Bus coordinates publishers and subscribers. One Bus instance is
// constructed by the process entry point and passed to every producer and
// transport handler; there is no ambient global.
type Bus struct {
	mu     sync.Mutex
	subs   []*Subscription // registration order
	lastTS int64           // last stamped timestamp, for monotonicity

	// deliverMu serializes broadcasts in buffer-insertion order. It is
	// acquired before mu is released so two concurrent publishes cannot
	// deliver out of order, and it is a separate lock so callbacks never
	// run while the bus state is held.
	deliverMu sync.Mutex

	// Replay ring buffer.
	ring    [BufferSize]model.Event
	ringPos int // next write position (wraps around)
	ringLen int // number of valid entries (up to BufferSize)

	now func() time.Time
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{now: time.Now}
}

// Publish stamps the event with a monotonically non-decreasing timestamp,
// appends it to the replay buffer, and delivers it to every subscriber
// registered at the time of the call, in registration order.
//
// Publish never fails and never panics regardless of subscriber behavior:
// each callback runs inside its own recover boundary, so one broken
// subscriber cannot abort delivery to the rest or reach the publisher.
// Concurrent publishes are fully serialized: the lock acquisition order
// defines the global publish order, and the delivery loop runs in that same
// order, so every subscriber observes the same sequence the buffer holds.
func (b *Bus) Publish(evt model.Event) {
	b.mu.Lock()
	ts := b.now().UnixMilli()
	if ts < b.lastTS {
		ts = b.lastTS
	}
	b.lastTS = ts
	evt.Timestamp = ts

	b.ring[b.ringPos] = evt
	b.ringPos = (b.ringPos + 1) % BufferSize
	if b.ringLen < BufferSize {
		b.ringLen++
	}

	snapshot := make([]*Subscription, len(b.subs))
	copy(snapshot, b.subs)

	// Take the delivery lock before releasing the state lock, so the
	// broadcast runs in the same order events entered the buffer. Registry
	// edits made during this loop only affect subsequent publishes.
	b.deliverMu.Lock()
	b.mu.Unlock()
	defer b.deliverMu.Unlock()

	for _, sub := range snapshot {
		deliver(sub, evt)
	}
}

// deliver invokes one subscriber inside an isolated failure boundary.
func deliver(sub *Subscription, evt model.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event subscriber panicked", "type", evt.Type, "panic", r)
		}
	}()
	sub.handler(evt)
}

// Subscribe registers fn and returns its handle. Duplicate registrations of
// the same function are intentionally not deduplicated; each receives every
// event independently.
func (b *Bus) Subscribe(fn Handler) *Subscription {
	sub := &Subscription{handler: fn}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes the registration. Unknown or already-removed handles
// are a no-op, never an error; an in-flight broadcast keeps delivering from
// its snapshot.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of live registrations.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Len returns the number of buffered events (at most BufferSize).
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ringLen
}

// Recent returns buffered events with timestamp strictly greater than
// sinceMillis whose payload matches project (ID or slug; empty matches all),
// preserving publish order. Recent(0, "") returns the full buffer.
func (b *Bus) Recent(sinceMillis int64, project string) []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ringLen == 0 {
		return nil
	}

	var result []model.Event

	// Walk the ring from oldest to newest.
	start := b.ringPos - b.ringLen
	if start < 0 {
		start += BufferSize
	}
	for i := range b.ringLen {
		evt := b.ring[(start+i)%BufferSize]
		if evt.Timestamp <= sinceMillis {
			continue
		}
		if !evt.MatchesProject(project) {
			continue
		}
		result = append(result, evt)
	}

	return result
}
