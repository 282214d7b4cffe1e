package worker

import (
	"time"

	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/pkg/logger"
)

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithName sets the dispatcher name used in logs.
func WithName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock sets the time source used for waits and lateness.
func WithClock(c schedule.Clock) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithMaxSleep caps a single wait.
func WithMaxSleep(max time.Duration) Option {
	return func(d *Dispatcher) {
		if max > 0 {
			d.maxSleep = max
		}
	}
}

// WithLateThreshold sets how late an event may fire before it is reported.
func WithLateThreshold(threshold time.Duration) Option {
	return func(d *Dispatcher) {
		if threshold >= 0 {
			d.lateThreshold = threshold
		}
	}
}
