// Package service wires the selector, queue and dispatcher into one
// runnable unit and exposes read views for the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/triplog/internal/adapters/mq/queue"
	"github.com/okian/triplog/internal/adapters/mq/worker"
	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/internal/domain/types"
	"github.com/okian/triplog/pkg/logger"
	"github.com/okian/triplog/pkg/random"
)

const (
	defaultQueueCapacity = 10_000
	stopTimeout          = 10 * time.Second
)

// Sentinel kinds for service errors.
var (
	ErrNoRecorder = errors.New("no record-visit capability configured")
)

// Service runs the perpetual schedule-and-dispatch loop.
type Service struct {
	mu sync.RWMutex

	// Configuration
	trips         []*model.Trip
	recorder      worker.Recorder
	clock         schedule.Clock
	rng           *random.Random
	queueCapacity int
	maxSleep      time.Duration

	// Components
	scheduler  *schedule.Scheduler
	selector   *schedule.Selector
	queue      *queue.TimeQueue
	dispatcher *worker.Dispatcher

	// State
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	runErr  error

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTrips sets the trips to choose from.
func WithTrips(trips []*model.Trip) Option {
	return func(s *Service) {
		s.trips = trips
	}
}

// WithRecorder sets the record-visit capability.
func WithRecorder(r worker.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock sets the time source.
func WithClock(c schedule.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSeed fixes the random source; zero picks a random seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.rng = random.NewRandom(seed)
	}
}

// WithQueueCapacity bounds the event queue.
func WithQueueCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.queueCapacity = capacity
		}
	}
}

// WithMaxSleep caps a single dispatcher wait.
func WithMaxSleep(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.maxSleep = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		clock:         schedule.SystemClock{},
		queueCapacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = random.NewRandom(0)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.scheduler = schedule.NewScheduler(
		schedule.WithClock(s.clock),
		schedule.WithRandom(s.rng),
		schedule.WithLogger(s.logger.Named("scheduler")),
	)
	s.selector = schedule.NewSelector(s.trips, s.scheduler,
		schedule.WithRandom(s.rng),
		schedule.WithLogger(s.logger.Named("selector")),
	)
	return s
}

// Start launches the dispatcher loop in the background.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.recorder == nil {
		return ErrNoRecorder
	}
	for _, trip := range s.trips {
		if n := trip.EventCount(); n > s.queueCapacity {
			return fmt.Errorf("%w: trip %q needs %d queue slots, capacity is %d",
				model.ErrConfig, trip.Name, n, s.queueCapacity)
		}
	}

	s.queue = queue.NewTimeQueue(queue.WithCapacity(s.queueCapacity))
	dopts := []worker.Option{
		worker.WithClock(s.clock),
		worker.WithLogger(s.logger.Named("dispatcher")),
	}
	if s.maxSleep > 0 {
		dopts = append(dopts, worker.WithMaxSleep(s.maxSleep))
	}
	s.dispatcher = worker.NewDispatcher(s.queue, s.selector, s.recorder, dopts...)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.runErr = nil

	go func(d *worker.Dispatcher, done chan struct{}) {
		defer close(done)
		err := d.Run(runCtx)
		if err != nil {
			s.logger.Error(runCtx, "dispatcher exited", logger.Error(err))
		}
		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
	}(s.dispatcher, s.done)

	s.started = true
	s.logger.Info(ctx, "trip service started",
		logger.Int("trips", len(s.trips)),
		logger.Int("queue_capacity", s.queueCapacity),
		logger.Any("seed", s.rng.Seed()),
	)
	return nil
}

// Done is closed when the dispatcher loop has exited. Nil before Start.
func (s *Service) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Err returns why the dispatcher loop exited, nil for a clean stop.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runErr
}

// Stop halts the dispatcher between events and closes the queue.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, d, q, done := s.cancel, s.dispatcher, s.queue, s.done
	s.mu.Unlock()

	ctx, stop := context.WithTimeout(context.Background(), stopTimeout)
	defer stop()

	s.logger.Info(ctx, "stopping trip service...")
	cancel()
	if err := d.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "dispatcher shutdown", logger.Error(err))
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
	_ = q.Close()
	s.logger.Info(ctx, "trip service stopped")
}

// Plan runs one scheduling pass without queueing or dispatching anything.
func (s *Service) Plan(ctx context.Context) (string, []types.UpcomingEvent, error) {
	trip, events := s.selector.Plan(ctx)
	if trip == nil {
		return "", nil, fmt.Errorf("plan: %w", worker.ErrNothingScheduled)
	}
	return trip.Name, types.FromEvents(events), nil
}

// Seed reports the seed of the random source, for reproducing a run.
func (s *Service) Seed() uint64 {
	return s.rng.Seed()
}

// Upcoming lists queued events in firing order.
func (s *Service) Upcoming() []types.UpcomingEvent {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return []types.UpcomingEvent{}
	}
	return types.FromEvents(q.Snapshot())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"trips":         len(s.trips),
		"seed":          s.rng.Seed(),
		"queueCapacity": s.queueCapacity,
	}
	if s.runErr != nil {
		stats["lastError"] = s.runErr.Error()
	}

	if s.dispatcher != nil {
		ds := s.dispatcher.Stats()
		stats["queueLength"] = s.queue.Len()
		stats["fired"] = ds.Fired
		stats["failed"] = ds.Failed
		stats["late"] = ds.Late
		stats["passes"] = ds.Passes
		if !ds.LastFired.IsZero() {
			stats["lastFired"] = ds.LastFired
		}
		if wake, ok := s.dispatcher.NextWakeup(); ok {
			stats["nextWakeup"] = wake
		}
	}
	return stats
}
