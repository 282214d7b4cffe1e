package model

import "strings"

// Venue is a location with an external identifier and a category.
// Scheduling state is kept by the scheduler, not here.
type Venue struct {
	Name     string
	ID       string
	Category *Category
}

// NewVenue validates and builds a Venue.
func NewVenue(name, id string, category *Category) (*Venue, error) {
	if strings.TrimSpace(id) == "" {
		return nil, configErrorf("venue %q: empty id", name)
	}
	if category == nil {
		return nil, configErrorf("venue %q: no category", name)
	}
	return &Venue{Name: name, ID: id, Category: category}, nil
}

// Trip is an ordered plan of check-in venues and optional check-out venues.
// Order is arrival order; time order is derived by the scheduler.
type Trip struct {
	Name      string
	Checkins  []*Venue
	Checkouts []*Venue
}

// NewTrip validates and builds a Trip.
func NewTrip(name string, checkins, checkouts []*Venue) (*Trip, error) {
	if len(checkins) == 0 {
		return nil, configErrorf("trip %q: no check-ins", name)
	}
	for i, v := range append(append([]*Venue{}, checkins...), checkouts...) {
		if v == nil {
			return nil, configErrorf("trip %q: nil venue at position %d", name, i)
		}
	}
	return &Trip{Name: name, Checkins: checkins, Checkouts: checkouts}, nil
}

// EventCount is how many events one scheduling pass over t produces,
// sentinel included.
func (t *Trip) EventCount() int {
	return len(t.Checkins) + len(t.Checkouts) + 1
}
