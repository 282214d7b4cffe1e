package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind tells what an Event does when fired.
type Kind int

const (
	KindCheckin Kind = iota
	KindCheckout
	KindSentinel
)

func (k Kind) String() string {
	switch k {
	case KindCheckin:
		return "checkin"
	case KindCheckout:
		return "checkout"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Event is a dispatchable visit, or the no-op sentinel that closes a day.
// Transient: produced by one scheduling pass and consumed once.
type Event struct {
	ID        string
	VenueID   string
	VenueName string
	Kind      Kind
	FireTime  time.Time
	// Pushed is set when a transit push moved FireTime off its random draw.
	Pushed bool
}

// NewVisit builds a check-in or check-out event for v.
func NewVisit(kind Kind, v *Venue, at time.Time, pushed bool) Event {
	return Event{
		ID:        uuid.NewString(),
		VenueID:   v.ID,
		VenueName: v.Name,
		Kind:      kind,
		FireTime:  at,
		Pushed:    pushed,
	}
}

// NewSentinel builds the no-op event fired at midnight.
func NewSentinel(at time.Time) Event {
	return Event{ID: uuid.NewString(), Kind: KindSentinel, FireTime: at}
}

// IsSentinel reports whether firing e should be a no-op.
func (e Event) IsSentinel() bool { return e.Kind == KindSentinel }
