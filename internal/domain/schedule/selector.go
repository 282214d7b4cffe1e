package schedule

import (
	"context"
	"fmt"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/pkg/logger"
	"github.com/okian/triplog/pkg/metrics"
	"github.com/okian/triplog/pkg/random"
)

// Sink receives scheduled events.
type Sink interface {
	Push(ctx context.Context, e model.Event) bool
}

// BoundedSink is a Sink that can tell how many more events it accepts.
// A pass that would not fit is refused before anything is pushed.
type BoundedSink interface {
	Sink
	Free() int
}

// Selector picks a trip uniformly at random and schedules it.
type Selector struct {
	trips     []*model.Trip
	scheduler *Scheduler
	rng       *random.Random
	logger    logger.Logger
}

// NewSelector creates a Selector over trips.
func NewSelector(trips []*model.Trip, scheduler *Scheduler, opts ...Option) *Selector {
	o := buildOptions("selector", opts)
	return &Selector{trips: trips, scheduler: scheduler, rng: o.rng, logger: o.logger}
}

// Select returns a random trip, or false when there are none.
func (s *Selector) Select() (*model.Trip, bool) {
	if len(s.trips) == 0 {
		return nil, false
	}
	return s.trips[s.rng.IntN(len(s.trips))], true
}

// Plan selects a trip and schedules it without publishing the events.
func (s *Selector) Plan(ctx context.Context) (*model.Trip, []model.Event) {
	trip, ok := s.Select()
	if !ok {
		return nil, nil
	}
	return trip, s.scheduler.Schedule(ctx, trip)
}

// SelectAndSchedule plans one trip and pushes its events into sink. With no
// trips configured sink is left untouched. It returns how many events were
// pushed.
func (s *Selector) SelectAndSchedule(ctx context.Context, sink Sink) (int, error) {
	trip, events := s.Plan(ctx)
	if trip == nil {
		s.logger.Warn(ctx, "no trips configured; nothing scheduled")
		return 0, nil
	}

	if b, ok := sink.(BoundedSink); ok && b.Free() < len(events) {
		return 0, fmt.Errorf("trip %q needs %d slots, %d free: %w", trip.Name, len(events), b.Free(), ErrSinkFull)
	}

	metrics.RecordSchedulePass()
	for i, e := range events {
		if !sink.Push(ctx, e) {
			return i, fmt.Errorf("trip %q event %s: %w", trip.Name, e.ID, ErrSinkRejected)
		}
	}
	metrics.RecordEventsScheduled(len(events))

	s.logger.Info(ctx, "trip scheduled",
		logger.String("trip", trip.Name),
		logger.Int("events", len(events)),
		logger.Time("first", events[0].FireTime),
		logger.Time("sentinel", events[len(events)-1].FireTime),
	)
	return len(events), nil
}
