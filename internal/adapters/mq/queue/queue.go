// Package queue holds pending events ordered by fire time.
package queue

import (
	"container/heap"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Event is the payload type held by the queue.
type Event = model.Event

// Queue is a time-ordered event store.
type Queue interface {
	// Push adds an event. Returns false when the queue is closed or full.
	Push(ctx context.Context, e Event) bool

	// Pop removes and returns the earliest event.
	Pop(ctx context.Context) (Event, bool)

	// Peek returns the earliest event without removing it.
	Peek() (Event, bool)

	// Len returns the number of queued events.
	Len() int

	// Free returns how many more events Push accepts; zero once closed.
	Free() int

	// Snapshot returns the queued events in firing order.
	Snapshot() []Event

	// Close rejects further pushes. Queued events stay poppable.
	Close() error

	IsClosed() bool
}

// TimeQueue implements Queue with a binary heap keyed by fire time. Events
// with equal fire times come out in the order they were pushed.
type TimeQueue struct {
	mu       sync.Mutex
	items    eventHeap
	seq      uint64
	capacity int
	closed   bool
}

// NewTimeQueue creates an empty queue.
func NewTimeQueue(opts ...Option) *TimeQueue {
	q := &TimeQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	metrics.UpdateQueueSize(0)
	return q
}

// Push adds an event.
func (q *TimeQueue) Push(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam: events are values
	if ctx.Err() != nil {
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if len(q.items) >= q.capacity {
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	heap.Push(&q.items, item{event: e, seq: q.seq})
	q.seq++
	q.publish()
	return true
}

// Pop removes and returns the earliest event.
func (q *TimeQueue) Pop(_ context.Context) (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Event{}, false
	}
	it := heap.Pop(&q.items).(item)
	q.publish()
	return it.event, true
}

// Peek returns the earliest event without removing it.
func (q *TimeQueue) Peek() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Event{}, false
	}
	return q.items[0].event, true
}

// Len returns the number of queued events.
func (q *TimeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Free returns how many more events Push accepts.
func (q *TimeQueue) Free() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0
	}
	return q.capacity - len(q.items)
}

// Snapshot returns a copy of the queued events in firing order.
func (q *TimeQueue) Snapshot() []Event {
	q.mu.Lock()
	items := make([]item, len(q.items))
	copy(items, q.items)
	q.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return eventHeap(items).Less(i, j) })
	out := make([]Event, len(items))
	for i, it := range items {
		out[i] = it.event
	}
	return out
}

// Close rejects further pushes.
func (q *TimeQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *TimeQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// publish updates gauges; callers hold q.mu.
func (q *TimeQueue) publish() {
	metrics.UpdateQueueSize(len(q.items))
	if len(q.items) == 0 {
		metrics.UpdateNextWakeup(time.Time{})
		return
	}
	metrics.UpdateNextWakeup(q.items[0].event.FireTime)
}
