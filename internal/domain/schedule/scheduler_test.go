package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/pkg/random"
	. "github.com/smartystreets/goconvey/convey"
)

func newScheduler(now time.Time, seed int64) *schedule.Scheduler {
	return schedule.NewScheduler(
		schedule.WithClock(schedule.FixedClock(now)),
		schedule.WithRandom(random.NewRandom(seed)),
	)
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func TestScheduleSingleVenue(t *testing.T) {
	ctx := context.Background()
	catA := mustCategory(model.Window{Start: 8, Stop: 12}, model.Window{Start: 14, Stop: 20}, time.Hour)
	v1 := mustVenue("one", "v1", catA)
	trip, err := model.NewTrip("t", []*model.Venue{v1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	Convey("Given a one-venue trip scheduled at 09:00", t, func() {
		now := at(5, 9, 0)
		events := newScheduler(now, 1).Schedule(ctx, trip)

		Convey("It yields one visit today and a sentinel at the following midnight", func() {
			So(events, ShouldHaveLength, 2)
			visit, sentinel := events[0], events[1]

			So(visit.VenueID, ShouldEqual, "v1")
			So(visit.Kind, ShouldEqual, model.KindCheckin)
			So(visit.Pushed, ShouldBeFalse)
			So(sameDate(visit.FireTime, now), ShouldBeTrue)
			So(visit.FireTime.Hour(), ShouldBeBetweenOrEqual, 8, 12)

			So(sentinel.IsSentinel(), ShouldBeTrue)
			So(isMidnight(sentinel.FireTime), ShouldBeTrue)
			So(sameDate(sentinel.FireTime, visit.FireTime.AddDate(0, 0, 1)), ShouldBeTrue)
		})
	})

	Convey("Given the same trip scheduled at 13:00", t, func() {
		now := at(5, 13, 0)
		events := newScheduler(now, 2).Schedule(ctx, trip)

		Convey("The visit falls tomorrow inside the window", func() {
			So(events, ShouldHaveLength, 2)
			So(sameDate(events[0].FireTime, now.AddDate(0, 0, 1)), ShouldBeTrue)
			So(events[0].FireTime.Hour(), ShouldBeBetweenOrEqual, 8, 12)
			So(sameDate(events[1].FireTime, now.AddDate(0, 0, 2)), ShouldBeTrue)
		})
	})
}

func TestScheduleTransitPush(t *testing.T) {
	ctx := context.Background()
	catA := mustCategory(model.Window{Start: 8, Stop: 12}, model.Window{Start: 14, Stop: 20}, time.Hour)
	v1 := mustVenue("one", "v1", catA)
	v2 := mustVenue("two", "v2", catA)
	trip, _ := model.NewTrip("t", []*model.Venue{v1, v2}, nil)
	now := at(5, 9, 0)

	Convey("Given many seeds for a two check-in trip", t, func() {
		pushes, plain := 0, 0

		for seed := int64(1); seed <= 300; seed++ {
			events := newScheduler(now, seed).Schedule(ctx, trip)
			So(events, ShouldHaveLength, 3)

			replay := schedule.NewPlanner(schedule.FixedClock(now), random.NewRandom(seed))
			naive1 := replay.CheckinTime(v1)
			naive2 := replay.CheckinTime(v2)
			first, second := events[0], events[1]

			So(first.FireTime, ShouldEqual, naive1)
			So(first.Pushed, ShouldBeFalse)

			if first.FireTime.Add(time.Hour).After(naive2) {
				pushes++
				So(second.Pushed, ShouldBeTrue)
				So(second.FireTime, ShouldEqual, naive2.Add(time.Hour))
				if !naive2.Before(first.FireTime) {
					So(second.FireTime.Sub(first.FireTime), ShouldBeGreaterThanOrEqualTo, time.Hour)
				}
			} else {
				plain++
				So(second.Pushed, ShouldBeFalse)
				So(second.FireTime, ShouldEqual, naive2)
			}
		}

		Convey("Both branches are exercised", func() {
			So(pushes, ShouldBeGreaterThan, 0)
			So(plain, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a push that leaves the window", t, func() {
		narrow := mustCategory(model.Window{Start: 12, Stop: 12}, model.Window{Start: 14, Stop: 20}, 3*time.Hour)
		a := mustVenue("a", "a", narrow)
		b := mustVenue("b", "b", narrow)
		trip, _ := model.NewTrip("t", []*model.Venue{a, b}, nil)
		events := newScheduler(now, 4).Schedule(ctx, trip)

		Convey("The pushed time is kept, not clamped", func() {
			So(events[1].Pushed, ShouldBeTrue)
			So(events[1].FireTime.Hour(), ShouldEqual, 15)
		})
	})
}

func TestScheduleCheckouts(t *testing.T) {
	ctx := context.Background()
	now := at(5, 9, 0)
	inCat := mustCategory(model.Window{Start: 8, Stop: 12}, model.Window{Start: 14, Stop: 20}, time.Hour)
	outCat := mustCategory(model.Window{Start: 8, Stop: 12}, model.Window{Start: 15, Stop: 15}, 10*time.Hour)
	hotel := mustVenue("hotel", "h", inCat)
	museum := mustVenue("museum", "m", outCat)
	park := mustVenue("park", "p", outCat)
	trip, _ := model.NewTrip("t", []*model.Venue{hotel}, []*model.Venue{museum, park})

	Convey("Given a trip with two check-outs", t, func() {
		events := newScheduler(now, 8).Schedule(ctx, trip)
		So(events, ShouldHaveLength, 4)
		checkin, out1, out2, sentinel := events[0], events[1], events[2], events[3]

		Convey("Check-outs land tomorrow", func() {
			So(sameDate(checkin.FireTime, now), ShouldBeTrue)
			So(out1.Kind, ShouldEqual, model.KindCheckout)
			So(sameDate(out1.FireTime, now.AddDate(0, 0, 1)), ShouldBeTrue)
			So(out1.FireTime.Hour(), ShouldEqual, 15)
			So(out1.Pushed, ShouldBeFalse)
		})

		Convey("The second check-out is pushed by the last check-in's transit only", func() {
			So(out2.Pushed, ShouldBeTrue)
			So(out2.FireTime.Hour(), ShouldEqual, 16)
			So(sameDate(out2.FireTime, now.AddDate(0, 0, 1)), ShouldBeTrue)
		})

		Convey("The sentinel closes the day after the last check-out", func() {
			So(isMidnight(sentinel.FireTime), ShouldBeTrue)
			So(sameDate(sentinel.FireTime, now.AddDate(0, 0, 2)), ShouldBeTrue)
		})
	})
}

func TestScheduleSentinel(t *testing.T) {
	ctx := context.Background()
	catA := mustCategory(model.Window{Start: 8, Stop: 12}, model.Window{Start: 14, Stop: 20}, time.Hour)
	catB := mustCategory(model.Window{Start: 10, Stop: 22}, model.Window{Start: 6, Stop: 23}, 2*time.Hour)
	venues := []*model.Venue{
		mustVenue("a", "a", catA),
		mustVenue("b", "b", catB),
		mustVenue("c", "c", catA),
	}
	trip, _ := model.NewTrip("t", venues, []*model.Venue{venues[1], venues[2]})

	Convey("Given many passes at different times of day", t, func() {
		for seed := int64(1); seed <= 100; seed++ {
			now := at(10, int(seed%24), 30)
			events := newScheduler(now, seed).Schedule(ctx, trip)
			sentinel := events[len(events)-1]

			So(sentinel.IsSentinel(), ShouldBeTrue)
			So(isMidnight(sentinel.FireTime), ShouldBeTrue)
			for _, e := range events[:len(events)-1] {
				So(e.IsSentinel(), ShouldBeFalse)
				So(sentinel.FireTime.After(e.FireTime), ShouldBeTrue)
			}
		}
	})

	Convey("Given the same seed twice", t, func() {
		now := at(10, 7, 0)
		a := newScheduler(now, 77).Schedule(ctx, trip)
		b := newScheduler(now, 77).Schedule(ctx, trip)

		Convey("The fire times match", func() {
			So(len(a), ShouldEqual, len(b))
			for i := range a {
				So(a[i].FireTime, ShouldEqual, b[i].FireTime)
				So(a[i].VenueID, ShouldEqual, b[i].VenueID)
			}
		})
	})
}
