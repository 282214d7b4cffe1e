package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry), WithNamespace("test"))

		Convey("Scheduling counters accumulate", func() {
			m.RecordSchedulePass()
			m.RecordEventsScheduled(3)
			m.RecordEventsScheduled(0)
			m.RecordTransitPush()

			So(testutil.ToFloat64(m.schedulePasses), ShouldEqual, float64(1))
			So(testutil.ToFloat64(m.eventsScheduled), ShouldEqual, float64(3))
			So(testutil.ToFloat64(m.transitPushes), ShouldEqual, float64(1))
		})

		Convey("Dispatches are counted by kind", func() {
			at := time.Unix(1_700_000_000, 0)
			m.RecordEventDispatched("visit", 2*time.Second, at)
			m.RecordEventDispatched("visit", -time.Second, at)
			m.RecordEventDispatched("sentinel", 0, at)
			m.RecordLateEvent()
			m.RecordDispatchError()

			So(testutil.ToFloat64(m.eventsDispatched.WithLabelValues("visit")), ShouldEqual, float64(2))
			So(testutil.ToFloat64(m.eventsDispatched.WithLabelValues("sentinel")), ShouldEqual, float64(1))
			So(testutil.ToFloat64(m.lastDispatchUnix), ShouldEqual, float64(1_700_000_000))
			So(testutil.ToFloat64(m.lateEvents), ShouldEqual, float64(1))
			So(testutil.ToFloat64(m.dispatchErrors), ShouldEqual, float64(1))
		})

		Convey("Queue gauges follow the latest value", func() {
			m.UpdateQueueSize(4)
			m.UpdateQueueSize(2)
			m.UpdateNextWakeup(time.Unix(1_700_000_100, 0))
			So(testutil.ToFloat64(m.queueSize), ShouldEqual, float64(2))
			So(testutil.ToFloat64(m.nextWakeupUnix), ShouldEqual, float64(1_700_000_100))

			m.UpdateNextWakeup(time.Time{})
			So(testutil.ToFloat64(m.nextWakeupUnix), ShouldEqual, float64(0))
		})

		Convey("Process gauges track the runtime", func() {
			m.UpdateSystemMemoryUsage(2048)
			m.UpdateSystemGoroutineCount(7)
			m.RecordSystemGCPauseTime(0.2)

			So(testutil.ToFloat64(m.memoryUsage), ShouldEqual, float64(2048))
			So(testutil.ToFloat64(m.goroutineCount), ShouldEqual, float64(7))
			So(testutil.CollectAndCount(m.gcPauseTime), ShouldEqual, 1)
		})

		Convey("Collectors are exposed on the registry", func() {
			m.RecordHTTPRequest("/stats", "GET", "200")
			m.RecordHTTPRequestDuration("/stats", "GET", "200", 3)
			m.RecordErrorByComponent("dispatcher", "record_visit")

			families, err := registry.Gather()
			So(err, ShouldBeNil)
			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["test_http_requests_total"], ShouldBeTrue)
			So(names["test_scheduler_errors_total"], ShouldBeTrue)
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("Nothing is recorded", func() {
			m.RecordSchedulePass()
			m.UpdateQueueSize(9)
			So(testutil.ToFloat64(m.schedulePasses), ShouldEqual, float64(0))
			So(testutil.ToFloat64(m.queueSize), ShouldEqual, float64(0))
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Package helpers record on the custom registry", t, func() {
		So(func() {
			RecordSchedulePass()
			RecordEventsScheduled(2)
			RecordTransitPush()
			RecordEventDispatched("visit", time.Second, time.Now())
			RecordDispatchError()
			RecordLateEvent()
			RecordVisitLatency(150 * time.Millisecond)
			UpdateQueueSize(1)
			UpdateNextWakeup(time.Now())
			RecordHTTPRequest("/healthz", "GET", "200")
			RecordHTTPRequestDuration("/healthz", "GET", "200", 1)
			RecordErrorByComponent("queue", "closed")
		}, ShouldNotPanic)

		_, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
	})
}
