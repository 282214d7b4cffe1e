package worker

import "errors"

// Sentinel kinds for dispatcher errors.
var (
	ErrStopped          = errors.New("dispatcher stopped")
	ErrNothingScheduled = errors.New("scheduling pass produced no events")
)
