package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/pkg/random"
	. "github.com/smartystreets/goconvey/convey"
)

type sliceSink struct {
	events []model.Event
	limit  int
}

func (s *sliceSink) Push(_ context.Context, e model.Event) bool {
	if s.limit > 0 && len(s.events) >= s.limit {
		return false
	}
	s.events = append(s.events, e)
	return true
}

// boundedSink reports its remaining room like the event queue does.
type boundedSink struct {
	sliceSink
	capacity int
}

func (b *boundedSink) Free() int { return b.capacity - len(b.events) }

func TestSelector(t *testing.T) {
	ctx := context.Background()
	now := at(5, 9, 0)
	catA := mustCategory(model.Window{Start: 8, Stop: 12}, model.Window{Start: 14, Stop: 20}, time.Hour)
	tripA, _ := model.NewTrip("a", []*model.Venue{mustVenue("one", "v1", catA)}, nil)
	tripB, _ := model.NewTrip("b", []*model.Venue{mustVenue("two", "v2", catA)}, nil)

	build := func(trips []*model.Trip, seed int64) *schedule.Selector {
		rng := random.NewRandom(seed)
		sched := schedule.NewScheduler(schedule.WithClock(schedule.FixedClock(now)), schedule.WithRandom(rng))
		return schedule.NewSelector(trips, sched, schedule.WithRandom(rng))
	}

	Convey("Given no trips", t, func() {
		sel := build(nil, 1)
		sink := &sliceSink{events: []model.Event{model.NewSentinel(now)}}

		Convey("The sink is left unchanged", func() {
			n, err := sel.SelectAndSchedule(ctx, sink)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
			So(sink.events, ShouldHaveLength, 1)

			_, ok := sel.Select()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given one trip", t, func() {
		sel := build([]*model.Trip{tripA}, 2)
		sink := &sliceSink{}

		Convey("Its events and sentinel are pushed", func() {
			n, err := sel.SelectAndSchedule(ctx, sink)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(sink.events[0].VenueID, ShouldEqual, "v1")
			So(sink.events[1].IsSentinel(), ShouldBeTrue)
		})
	})

	Convey("Given two trips", t, func() {
		sel := build([]*model.Trip{tripA, tripB}, 3)

		Convey("Both get picked over many draws", func() {
			counts := map[string]int{}
			for i := 0; i < 1000; i++ {
				trip, ok := sel.Select()
				So(ok, ShouldBeTrue)
				counts[trip.Name]++
			}
			So(counts["a"], ShouldBeGreaterThan, 350)
			So(counts["b"], ShouldBeGreaterThan, 350)
		})

		Convey("Equal seeds pick the same sequence", func() {
			other := build([]*model.Trip{tripA, tripB}, 3)
			for i := 0; i < 20; i++ {
				x, _ := sel.Select()
				y, _ := other.Select()
				So(x.Name, ShouldEqual, y.Name)
			}
		})
	})

	Convey("Given a sink that fills up", t, func() {
		sel := build([]*model.Trip{tripA}, 4)
		sink := &sliceSink{limit: 1}

		Convey("The rejection is reported", func() {
			n, err := sel.SelectAndSchedule(ctx, sink)
			So(errors.Is(err, schedule.ErrSinkRejected), ShouldBeTrue)
			So(n, ShouldEqual, 1)
		})
	})

	Convey("Given a bounded sink too small for the trip", t, func() {
		two, _ := model.NewTrip("two", []*model.Venue{mustVenue("one", "v1", catA), mustVenue("two", "v2", catA)}, nil)
		sel := build([]*model.Trip{two}, 5)
		sink := &boundedSink{capacity: 2}

		Convey("Nothing is pushed and the pass is refused", func() {
			n, err := sel.SelectAndSchedule(ctx, sink)
			So(errors.Is(err, schedule.ErrSinkFull), ShouldBeTrue)
			So(n, ShouldEqual, 0)
			So(sink.events, ShouldBeEmpty)
		})

		Convey("One more slot is enough", func() {
			sink.capacity = 3
			n, err := sel.SelectAndSchedule(ctx, sink)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})
	})
}
