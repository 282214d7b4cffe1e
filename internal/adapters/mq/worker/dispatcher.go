// Package worker runs the dispatcher that fires queued events on time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/triplog/internal/adapters/mq/queue"
	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/pkg/logger"
	"github.com/okian/triplog/pkg/metrics"
)

const (
	defaultMaxSleep      = 60 * time.Second
	defaultLateThreshold = time.Second
)

// Event is what the dispatcher pops off the queue.
type Event = model.Event

// Recorder records a visit at a venue.
type Recorder interface {
	RecordVisit(ctx context.Context, venueID string) error
}

// Filler refills an empty queue with a freshly scheduled day.
type Filler interface {
	SelectAndSchedule(ctx context.Context, sink schedule.Sink) (int, error)
}

// Stats is a point-in-time view of dispatcher counters.
type Stats struct {
	Fired     int64
	Failed    int64
	Late      int64
	Passes    int64
	LastFired time.Time
}

// Dispatcher drains the queue in fire-time order, sleeping until each event
// is due, and asks the Filler for a new day whenever the queue runs dry.
type Dispatcher struct {
	queue    queue.Queue
	filler   Filler
	recorder Recorder
	clock    schedule.Clock
	name     string

	maxSleep      time.Duration
	lateThreshold time.Duration

	fired    atomic.Int64
	failed   atomic.Int64
	late     atomic.Int64
	passes   atomic.Int64
	lastMu   sync.RWMutex
	lastFire time.Time

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(q queue.Queue, filler Filler, recorder Recorder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:         q,
		filler:        filler,
		recorder:      recorder,
		clock:         schedule.SystemClock{},
		name:          "dispatcher",
		maxSleep:      defaultMaxSleep,
		lateThreshold: defaultLateThreshold,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get().Named(d.name)
	}
	return d
}

// NextWakeup returns the fire time of the earliest queued event.
func (d *Dispatcher) NextWakeup() (time.Time, bool) {
	e, ok := d.queue.Peek()
	if !ok {
		return time.Time{}, false
	}
	return e.FireTime, true
}

// Run loops until ctx is cancelled or Shutdown is called, in which case it
// returns nil. It returns an error when refilling the queue fails or
// produces nothing.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)

	for {
		if d.stopped(ctx) {
			return nil
		}

		if d.queue.Len() == 0 {
			n, err := d.filler.SelectAndSchedule(ctx, d.queue)
			if err != nil {
				return fmt.Errorf("refill queue: %w", err)
			}
			if n == 0 {
				return ErrNothingScheduled
			}
			d.passes.Add(1)
		}

		wake, ok := d.NextWakeup()
		if !ok {
			continue
		}
		if err := d.waitUntil(ctx, wake); err != nil {
			d.logger.Info(ctx, "dispatcher stopping", logger.Time("next_wakeup", wake))
			return nil
		}

		e, ok := d.queue.Pop(ctx)
		if !ok {
			continue
		}
		_ = d.Fire(ctx, e) // failures are logged and counted; the loop goes on
	}
}

// Fire dispatches one event. A sentinel is a no-op; anything else goes to
// the Recorder exactly once. Events past their fire time still fire.
func (d *Dispatcher) Fire(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: events are values
	now := d.clock.Now()
	lateness := now.Sub(e.FireTime)
	if lateness > d.lateThreshold {
		d.late.Add(1)
		metrics.RecordLateEvent()
		d.logger.Warn(ctx, "event fired late",
			logger.String("event_id", e.ID),
			logger.String("venue", e.VenueName),
			logger.Time("fire_time", e.FireTime),
			logger.Duration("late_by", lateness),
		)
	}

	if e.IsSentinel() {
		metrics.RecordEventDispatched(model.KindSentinel.String(), lateness, now)
		d.logger.Debug(ctx, "day closed", logger.Time("fire_time", e.FireTime))
		return nil
	}

	start := time.Now()
	err := d.recorder.RecordVisit(ctx, e.VenueID)
	metrics.RecordVisitLatency(time.Since(start))
	metrics.RecordEventDispatched(e.Kind.String(), lateness, now)
	d.fired.Add(1)
	d.lastMu.Lock()
	d.lastFire = now
	d.lastMu.Unlock()

	if err != nil {
		var ce *model.CapabilityError
		if !errors.As(err, &ce) {
			err = &model.CapabilityError{VenueID: e.VenueID, Err: err}
		}
		d.failed.Add(1)
		metrics.RecordDispatchError()
		metrics.RecordErrorByComponent("dispatcher", "record_visit")
		d.logger.Error(ctx, "record visit failed",
			logger.String("event_id", e.ID),
			logger.String("venue", e.VenueName),
			logger.String("venue_id", e.VenueID),
			logger.Error(err),
		)
		return err
	}

	d.logger.Info(ctx, "visit recorded",
		logger.String("kind", e.Kind.String()),
		logger.String("venue", e.VenueName),
		logger.String("venue_id", e.VenueID),
		logger.Bool("pushed", e.Pushed),
	)
	return nil
}

// Shutdown stops Run between events and waits for it to return.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.shutdownOnce.Do(func() { close(d.shutdown) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	d.lastMu.RLock()
	last := d.lastFire
	d.lastMu.RUnlock()
	return Stats{
		Fired:     d.fired.Load(),
		Failed:    d.failed.Load(),
		Late:      d.late.Load(),
		Passes:    d.passes.Load(),
		LastFired: last,
	}
}

func (d *Dispatcher) stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-d.shutdown:
		return true
	default:
		return false
	}
}

// waitUntil sleeps until wake. Each wait is capped at maxSleep so a
// stepped wall clock is noticed.
func (d *Dispatcher) waitUntil(ctx context.Context, wake time.Time) error {
	for {
		dur := wake.Sub(d.clock.Now())
		if dur <= 0 {
			return nil
		}
		if dur > d.maxSleep {
			dur = d.maxSleep
		}

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-d.shutdown:
			timer.Stop()
			return ErrStopped
		case <-timer.C:
		}
	}
}
