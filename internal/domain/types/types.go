// Package types contains read shapes shared by the service and the HTTP API.
package types

import (
	"time"

	"github.com/okian/triplog/internal/domain/model"
)

// UpcomingEvent is a queued event as exposed over HTTP and in plan output.
type UpcomingEvent struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Venue    string    `json:"venue,omitempty"`
	VenueID  string    `json:"venue_id,omitempty"`
	FireTime time.Time `json:"fire_time"`
	Pushed   bool      `json:"pushed,omitempty"`
}

// FromEvents converts events, keeping their order.
func FromEvents(events []model.Event) []UpcomingEvent {
	out := make([]UpcomingEvent, len(events))
	for i, e := range events {
		out[i] = UpcomingEvent{
			ID:       e.ID,
			Kind:     e.Kind.String(),
			Venue:    e.VenueName,
			VenueID:  e.VenueID,
			FireTime: e.FireTime,
			Pushed:   e.Pushed,
		}
	}
	return out
}
