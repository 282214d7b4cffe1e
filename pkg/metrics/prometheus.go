// Package metrics provides Prometheus metrics for the trip scheduler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scheduling
	schedulePasses  prometheus.Counter
	eventsScheduled prometheus.Counter
	transitPushes   prometheus.Counter

	// Dispatch
	eventsDispatched   *prometheus.CounterVec
	dispatchErrors     prometheus.Counter
	lateEvents         prometheus.Counter
	dispatchLateness   prometheus.Histogram
	recordVisitLatency prometheus.Histogram
	lastDispatchUnix   prometheus.Gauge

	// Queue
	queueSize      prometheus.Gauge
	nextWakeupUnix prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors land on the Prometheus default registerer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "triplog",
		subsystem:        "scheduler",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.schedulePasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schedule_passes_total",
		Help:      "Number of scheduling passes that produced events",
	})
	m.eventsScheduled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_scheduled_total",
		Help:      "Events queued by scheduling passes, sentinels included",
	})
	m.transitPushes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transit_pushes_total",
		Help:      "Visits moved later to honour a transit gap",
	})

	m.eventsDispatched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dispatched_total",
		Help:      "Events fired by the dispatcher",
	}, []string{"kind"})
	m.dispatchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_errors_total",
		Help:      "Record-visit calls that failed",
	})
	m.lateEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "late_events_total",
		Help:      "Events fired after their fire time had already passed",
	})
	m.dispatchLateness = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_lateness_seconds",
		Help:      "Delay between an event's fire time and its dispatch",
		Buckets:   []float64{0.01, 0.1, 1, 10, 60, 600, 3600, 86400},
	})
	m.recordVisitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_visit_duration_seconds",
		Help:      "Latency of record-visit calls",
		Buckets:   m.histogramBuckets,
	})
	m.lastDispatchUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_dispatch_timestamp_seconds",
		Help:      "Unix time of the last dispatched event",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Events waiting in the queue",
	})
	m.nextWakeupUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "next_wakeup_timestamp_seconds",
		Help:      "Unix time of the earliest queued event",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request latency in milliseconds",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})
	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})
	m.gcPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_time_milliseconds",
		Help:      "Average GC pause in milliseconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
}

// Manager methods. Each is a no-op when the manager is disabled.

func (m *Manager) RecordSchedulePass() {
	if m.enabled {
		m.schedulePasses.Inc()
	}
}

func (m *Manager) RecordEventsScheduled(n int) {
	if m.enabled && n > 0 {
		m.eventsScheduled.Add(float64(n))
	}
}

func (m *Manager) RecordTransitPush() {
	if m.enabled {
		m.transitPushes.Inc()
	}
}

func (m *Manager) RecordEventDispatched(kind string, lateness time.Duration, at time.Time) {
	if !m.enabled {
		return
	}
	m.eventsDispatched.WithLabelValues(kind).Inc()
	if lateness < 0 {
		lateness = 0
	}
	m.dispatchLateness.Observe(lateness.Seconds())
	m.lastDispatchUnix.Set(float64(at.Unix()))
}

func (m *Manager) RecordDispatchError() {
	if m.enabled {
		m.dispatchErrors.Inc()
	}
}

func (m *Manager) RecordLateEvent() {
	if m.enabled {
		m.lateEvents.Inc()
	}
}

func (m *Manager) RecordVisitLatency(d time.Duration) {
	if m.enabled {
		m.recordVisitLatency.Observe(d.Seconds())
	}
}

func (m *Manager) UpdateQueueSize(size int) {
	if m.enabled {
		m.queueSize.Set(float64(size))
	}
}

// UpdateNextWakeup records the earliest fire time; the zero time clears it.
func (m *Manager) UpdateNextWakeup(t time.Time) {
	if !m.enabled {
		return
	}
	if t.IsZero() {
		m.nextWakeupUnix.Set(0)
		return
	}
	m.nextWakeupUnix.Set(float64(t.Unix()))
}

func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.memoryUsage.Set(float64(bytes))
	}
}

func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.goroutineCount.Set(float64(count))
	}
}

func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.gcPauseTime.Observe(pauseMs)
	}
}

// Package-level helpers forward to the global manager.

func RecordSchedulePass()         { globalManager.RecordSchedulePass() }
func RecordEventsScheduled(n int) { globalManager.RecordEventsScheduled(n) }
func RecordTransitPush()          { globalManager.RecordTransitPush() }
func RecordDispatchError()        { globalManager.RecordDispatchError() }
func RecordLateEvent()            { globalManager.RecordLateEvent() }
func UpdateQueueSize(size int)    { globalManager.UpdateQueueSize(size) }
func UpdateNextWakeup(t time.Time) {
	globalManager.UpdateNextWakeup(t)
}
func RecordVisitLatency(d time.Duration) { globalManager.RecordVisitLatency(d) }

func RecordEventDispatched(kind string, lateness time.Duration, at time.Time) {
	globalManager.RecordEventDispatched(kind, lateness, at)
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.RecordSystemGCPauseTime(pauseMs)
}

// GetRegistry returns the registry behind the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
