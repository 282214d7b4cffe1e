package schedule

import "errors"

// Sentinel kinds for scheduling errors.
var (
	ErrSinkRejected = errors.New("event sink rejected event")
	ErrSinkFull     = errors.New("event sink has no room for the pass")
)
