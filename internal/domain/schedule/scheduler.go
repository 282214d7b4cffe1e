package schedule

import (
	"context"
	"time"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/pkg/logger"
	"github.com/okian/triplog/pkg/metrics"
	"github.com/okian/triplog/pkg/random"
)

// Scheduler turns one trip into visit events plus a closing sentinel.
type Scheduler struct {
	clock  Clock
	rng    *random.Random
	logger logger.Logger
}

// Option configures a Scheduler or a Selector.
type Option func(*options)

type options struct {
	clock  Clock
	rng    *random.Random
	logger logger.Logger
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRandom sets the random source.
func WithRandom(r *random.Random) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(name string, opts []Option) options {
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = random.NewRandom(0)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named(name)
	}
	return o
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	o := buildOptions("scheduler", opts)
	return &Scheduler{clock: o.clock, rng: o.rng, logger: o.logger}
}

// Schedule produces the events for one pass over trip, in computation
// order. Check-ins chain transit against each other; check-outs only
// against the last check-in venue. A pushed time is the random draw plus
// the prior venue's transit, and is not clamped back into its window.
func (s *Scheduler) Schedule(ctx context.Context, trip *model.Trip) []model.Event {
	planner := NewPlanner(s.clock, s.rng)
	previous := s.clock.Now().AddDate(0, 0, -1)
	latest := previous
	var prior *model.Venue

	events := make([]model.Event, 0, len(trip.Checkins)+len(trip.Checkouts)+1)
	emit := func(kind model.Kind, v *model.Venue, c time.Time) {
		pushed := false
		if prior != nil {
			transit := prior.Category.Transit()
			if previous.Add(transit).After(c) {
				c = c.Add(transit)
				pushed = true
				metrics.RecordTransitPush()
				s.logger.Debug(ctx, "transit push",
					logger.String("venue", v.Name),
					logger.String("after", prior.Name),
					logger.Duration("transit", transit),
				)
			}
		}
		events = append(events, model.NewVisit(kind, v, c, pushed))
		previous = c
		if c.After(latest) {
			latest = c
		}
	}

	for _, v := range trip.Checkins {
		emit(model.KindCheckin, v, planner.CheckinTime(v))
		prior = v
	}
	for _, v := range trip.Checkouts {
		emit(model.KindCheckout, v, planner.CheckoutTime(v))
	}

	events = append(events, model.NewSentinel(midnightAfter(latest)))
	return events
}
