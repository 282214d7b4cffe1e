package schedule

import (
	"time"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/pkg/random"
)

// Planner derives concrete visit times for venues during one scheduling
// pass. It owns the per-venue day offsets for that pass, so a Planner must
// not be shared between passes or goroutines.
type Planner struct {
	clock   Clock
	rng     *random.Random
	offsets map[string]int
}

// NewPlanner creates a Planner with all offsets at zero.
func NewPlanner(clock Clock, rng *random.Random) *Planner {
	return &Planner{clock: clock, rng: rng, offsets: make(map[string]int)}
}

// CheckinTime returns a time inside v's check-in window, today or, when the
// window has already closed for today, one more day out.
func (p *Planner) CheckinTime(v *model.Venue) time.Time {
	now := p.clock.Now()
	w := v.Category.CheckIn()
	if now.Hour() > w.Stop {
		p.offsets[v.ID]++
	}
	return p.draw(now, p.offsets[v.ID], w)
}

// CheckoutTime returns a time inside v's check-out window on tomorrow plus
// any pending offset, and clears the offset.
func (p *Planner) CheckoutTime(v *model.Venue) time.Time {
	now := p.clock.Now()
	t := p.draw(now, 1+p.offsets[v.ID], v.Category.CheckOut())
	delete(p.offsets, v.ID)
	return t
}

// Offset returns the pending day offset for a venue id.
func (p *Planner) Offset(venueID string) int {
	return p.offsets[venueID]
}

// draw picks a random hour in w, random minute and second, on base's date
// shifted by days. An hour skipped by a DST change is replaced by the top of
// the next hour that exists that day.
func (p *Planner) draw(base time.Time, days int, w model.Window) time.Time {
	y, m, d := base.Date()
	loc := base.Location()
	hour := p.rng.IntRange(w.Start, w.Stop)
	minute := p.rng.IntRange(0, 59)
	second := p.rng.IntRange(0, 59)

	t := time.Date(y, m, d+days, hour, minute, second, 0, loc)
	if t.Hour() == hour {
		return t
	}
	for h := hour + 1; h <= model.MaxHour; h++ {
		if c := time.Date(y, m, d+days, h, 0, 0, 0, loc); c.Hour() == h {
			return c
		}
	}
	return t
}
