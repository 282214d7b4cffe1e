package worker

import (
	"context"

	"github.com/okian/triplog/pkg/logger"
)

// LogRecorder only logs visits. Used for dry runs.
type LogRecorder struct {
	logger logger.Logger
}

// NewLogRecorder creates a LogRecorder.
func NewLogRecorder(l logger.Logger) *LogRecorder {
	if l == nil {
		l = logger.Get().Named("dry-run")
	}
	return &LogRecorder{logger: l}
}

// RecordVisit implements Recorder.
func (r *LogRecorder) RecordVisit(ctx context.Context, venueID string) error {
	r.logger.Info(ctx, "dry run: visit not sent", logger.String("venue_id", venueID))
	return nil
}
