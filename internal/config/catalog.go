package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/triplog/internal/domain/model"
)

// Catalog is the validated domain view of the configuration.
type Catalog struct {
	Categories map[string]*model.Category
	Venues     map[string]*model.Venue
	Trips      []*model.Trip
}

// Catalog builds categories, venues and trips. Every problem found is
// reported, joined, under ErrInvalidConfig.
func (c *Config) Catalog() (*Catalog, error) {
	var errs []error
	cat := &Catalog{
		Categories: make(map[string]*model.Category, len(c.Categories)),
		Venues:     make(map[string]*model.Venue, len(c.Venues)),
	}

	for _, name := range sortedKeys(c.Categories) {
		category, err := buildCategory(name, c.Categories[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cat.Categories[name] = category
	}

	for _, name := range sortedKeys(c.Venues) {
		spec := c.Venues[name]
		category, ok := cat.Categories[spec.Category]
		if !ok {
			if _, declared := c.Categories[spec.Category]; !declared {
				errs = append(errs, fmt.Errorf("venue %q: unknown category %q", name, spec.Category))
			}
			continue
		}
		v, err := model.NewVenue(name, spec.ID, category)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cat.Venues[name] = v
	}

	if len(c.Trips) == 0 {
		errs = append(errs, errors.New("no trips defined"))
	}
	for i, spec := range c.Trips {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("trip-%d", i+1)
		}
		checkins, err1 := c.resolve(cat, name, spec.Checkins)
		checkouts, err2 := c.resolve(cat, name, spec.Checkouts)
		if err := errors.Join(err1, err2); err != nil {
			errs = append(errs, err)
			continue
		}
		trip, err := model.NewTrip(name, checkins, checkouts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cat.Trips = append(cat.Trips, trip)
	}

	for _, trip := range cat.Trips {
		if n := trip.EventCount(); n > c.QueueCapacity {
			errs = append(errs, fmt.Errorf("trip %q: needs %d queue slots, queue_capacity is %d", trip.Name, n, c.QueueCapacity))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return cat, nil
}

// resolve maps venue names to venues. Names that failed to build earlier
// are skipped silently; their error is already reported.
func (c *Config) resolve(cat *Catalog, trip string, names []string) ([]*model.Venue, error) {
	var errs []error
	out := make([]*model.Venue, 0, len(names))
	for _, n := range names {
		if v, ok := cat.Venues[n]; ok {
			out = append(out, v)
			continue
		}
		if _, declared := c.Venues[n]; !declared {
			errs = append(errs, fmt.Errorf("trip %q: unknown venue %q", trip, n))
		} else {
			errs = append(errs, fmt.Errorf("trip %q: venue %q is invalid", trip, n))
		}
	}
	return out, errors.Join(errs...)
}

func buildCategory(name string, spec CategorySpec) (*model.Category, error) {
	in, err := window(name, "check_in", spec.CheckIn, model.DefaultCheckIn)
	if err != nil {
		return nil, err
	}
	out, err := window(name, "check_out", spec.CheckOut, model.DefaultCheckOut)
	if err != nil {
		return nil, err
	}
	transit := model.DefaultTransit
	if spec.TransitHours != nil {
		transit = time.Duration(*spec.TransitHours * float64(time.Hour))
	}
	return model.NewCategory(name, in, out, transit)
}

func window(category, field string, hours []int, def model.Window) (model.Window, error) {
	switch len(hours) {
	case 0:
		return def, nil
	case 2:
		return model.Window{Start: hours[0], Stop: hours[1]}, nil
	default:
		return model.Window{}, fmt.Errorf("%w: category %q: %s needs [start, stop], got %v", model.ErrConfig, category, field, hours)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
