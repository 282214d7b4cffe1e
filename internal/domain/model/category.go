// Package model contains the scheduling domain: categories, venues, trips
// and the events a scheduling pass produces.
package model

import "time"

// Hour bounds for a window.
const (
	MinHour = 0
	MaxHour = 23
)

// Window is an inclusive range of hours of the day.
type Window struct {
	Start int
	Stop  int
}

// Contains reports whether hour lies in [Start, Stop].
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.Stop
}

func (w Window) validate(name, which string) error {
	if w.Start < MinHour || w.Start > MaxHour || w.Stop < MinHour || w.Stop > MaxHour {
		return configErrorf("category %q: %s hours [%d, %d] outside [%d, %d]", name, which, w.Start, w.Stop, MinHour, MaxHour)
	}
	if w.Start > w.Stop {
		return configErrorf("category %q: %s start %d after stop %d", name, which, w.Start, w.Stop)
	}
	return nil
}

// Default windows and transit applied when a category leaves them out.
var (
	DefaultCheckIn  = Window{Start: 8, Stop: 12}
	DefaultCheckOut = Window{Start: 14, Stop: 20}
)

// DefaultTransit is the default minimum gap before the next venue.
const DefaultTransit = time.Hour

// Category constrains the visiting hours of its venues and the minimum
// transit time to whatever venue comes next. Immutable once built.
type Category struct {
	name     string
	checkIn  Window
	checkOut Window
	transit  time.Duration
}

// NewCategory validates and builds a Category.
func NewCategory(name string, checkIn, checkOut Window, transit time.Duration) (*Category, error) {
	if err := checkIn.validate(name, "check-in"); err != nil {
		return nil, err
	}
	if err := checkOut.validate(name, "check-out"); err != nil {
		return nil, err
	}
	if transit < 0 {
		return nil, configErrorf("category %q: negative transit %s", name, transit)
	}
	return &Category{name: name, checkIn: checkIn, checkOut: checkOut, transit: transit}, nil
}

func (c *Category) Name() string           { return c.name }
func (c *Category) CheckIn() Window        { return c.checkIn }
func (c *Category) CheckOut() Window       { return c.checkOut }
func (c *Category) Transit() time.Duration { return c.transit }
