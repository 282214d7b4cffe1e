package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/triplog/internal/domain/model"
)

var base = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func ev(id string, offset time.Duration) Event {
	return Event{ID: id, VenueID: "v-" + id, FireTime: base.Add(offset)}
}

func TestTimeQueue_OrdersByFireTime(t *testing.T) {
	q := NewTimeQueue()
	ctx := context.Background()

	for _, e := range []Event{ev("c", 3*time.Hour), ev("a", time.Hour), ev("b", 2*time.Hour)} {
		if !q.Push(ctx, e) {
			t.Fatalf("push %s failed", e.ID)
		}
	}

	if l := q.Len(); l != 3 {
		t.Fatalf("expected length 3, got %d", l)
	}
	if head, ok := q.Peek(); !ok || head.ID != "a" {
		t.Fatalf("peek = %v %v, want a", head.ID, ok)
	}

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Pop(ctx)
		if !ok || got.ID != want {
			t.Fatalf("pop = %q %v, want %q", got.ID, ok, want)
		}
	}
	if _, ok := q.Pop(ctx); ok {
		t.Fatal("expected empty queue")
	}
	if _, ok := q.Peek(); ok {
		t.Fatal("expected empty peek")
	}
}

func TestTimeQueue_TiesKeepInsertionOrder(t *testing.T) {
	q := NewTimeQueue()
	ctx := context.Background()

	ids := []string{"first", "second", "third", "fourth"}
	for _, id := range ids {
		q.Push(ctx, ev(id, time.Hour))
	}
	q.Push(ctx, ev("early", 0))

	want := append([]string{"early"}, ids...)
	for i, e := range q.Snapshot() {
		if e.ID != want[i] {
			t.Fatalf("snapshot[%d] = %s, want %s", i, e.ID, want[i])
		}
	}
	for _, w := range want {
		got, _ := q.Pop(ctx)
		if got.ID != w {
			t.Fatalf("pop = %s, want %s", got.ID, w)
		}
	}
}

func TestTimeQueue_SnapshotDoesNotDrain(t *testing.T) {
	q := NewTimeQueue()
	ctx := context.Background()
	q.Push(ctx, ev("b", 2*time.Hour))
	q.Push(ctx, ev("a", time.Hour))

	snap := q.Snapshot()
	if len(snap) != 2 || snap[0].ID != "a" || snap[1].ID != "b" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if q.Len() != 2 {
		t.Fatalf("snapshot drained queue")
	}
}

func TestTimeQueue_CapacityAndClose(t *testing.T) {
	q := NewTimeQueue(WithCapacity(2))
	ctx := context.Background()

	if got := q.Free(); got != 2 {
		t.Fatalf("free on empty queue = %d, want 2", got)
	}
	if !q.Push(ctx, ev("a", 0)) {
		t.Fatal("expected push within capacity to succeed")
	}
	if got := q.Free(); got != 1 {
		t.Fatalf("free after one push = %d, want 1", got)
	}
	if !q.Push(ctx, ev("b", 0)) {
		t.Fatal("expected push within capacity to succeed")
	}
	if got := q.Free(); got != 0 {
		t.Fatalf("free on full queue = %d, want 0", got)
	}
	if q.Push(ctx, ev("c", 0)) {
		t.Fatal("expected push over capacity to fail")
	}

	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Fatal("expected closed queue")
	}
	if _, ok := q.Pop(ctx); !ok {
		t.Fatal("queued events should survive close")
	}
	if got := q.Free(); got != 0 {
		t.Fatalf("free on closed queue = %d, want 0", got)
	}
	if q.Push(ctx, ev("d", 0)) {
		t.Fatal("expected push after close to fail")
	}
}

func TestTimeQueue_CancelledContext(t *testing.T) {
	q := NewTimeQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Push(ctx, ev("a", 0)) {
		t.Fatal("expected push with cancelled context to fail")
	}
}

func TestTimeQueue_ConcurrentPush(t *testing.T) {
	q := NewTimeQueue()
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(ctx, Event{Kind: model.KindCheckin, FireTime: base.Add(time.Duration(g*50+i) * time.Minute)})
			}
		}(g)
	}
	wg.Wait()

	if q.Len() != 400 {
		t.Fatalf("expected 400 events, got %d", q.Len())
	}
	prev := time.Time{}
	for q.Len() > 0 {
		e, _ := q.Pop(ctx)
		if e.FireTime.Before(prev) {
			t.Fatalf("out of order: %v before %v", e.FireTime, prev)
		}
		prev = e.FireTime
	}
}
