package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by the domain and its adapters.
var (
	// ErrConfig marks malformed category, venue or trip definitions.
	ErrConfig = errors.New("config error")
	// ErrCapability marks a failed record-visit call.
	ErrCapability = errors.New("record visit failed")
)

// CapabilityError reports a record-visit failure for one venue.
type CapabilityError struct {
	VenueID string
	Err     error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("record visit %s: %v", e.VenueID, e.Err)
}

// Unwrap exposes the cause to errors.Is/As.
func (e *CapabilityError) Unwrap() error { return e.Err }

// Is reports a match against ErrCapability.
func (e *CapabilityError) Is(target error) bool { return target == ErrCapability }

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}
