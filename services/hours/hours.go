// Package hours models the bookable calendar as a simple open-days /
// open-hour-range window and answers two questions: is a candidate local
// time inside the window, and when is the next opening.
package hours

import "time"

// BusinessHours describes the weekly booking window in local time.
// Appointments may start at or after OpenHour and must start strictly
// before CloseHour on an open weekday.
type BusinessHours struct {
	Location     *time.Location
	OpenHour     int
	CloseHour    int
	OpenWeekdays map[time.Weekday]bool
}

// New builds a BusinessHours from configuration values. Weekdays use the
// time.Weekday numbering (Sunday = 0).
func New(loc *time.Location, openHour, closeHour int, weekdays []int) BusinessHours {
	open := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		open[time.Weekday(d)] = true
	}
	return BusinessHours{
		Location:     loc,
		OpenHour:     openHour,
		CloseHour:    closeHour,
		OpenWeekdays: open,
	}
}

// Contains reports whether t falls inside the booking window.
// t is converted to the business's local time before checking.
func (b BusinessHours) Contains(t time.Time) bool {
	local := t.In(b.Location)
	if !b.OpenWeekdays[local.Weekday()] {
		return false
	}
	h := local.Hour()
	return h >= b.OpenHour && h < b.CloseHour
}

// NextOpening walks forward from t in the given increments and returns the
// first instant inside the booking window, bounded to the lookahead.
// The boolean is false when no opening exists within the bound.
func (b BusinessHours) NextOpening(t time.Time, step time.Duration, lookahead time.Duration) (time.Time, bool) {
	local := t.In(b.Location)
	// Align to the next step boundary so suggested slots are tidy.
	if rem := local.Sub(local.Truncate(step)); rem > 0 {
		local = local.Truncate(step).Add(step)
	}
	limit := local.Add(lookahead)
	for cur := local; !cur.After(limit); cur = cur.Add(step) {
		if b.Contains(cur) {
			return cur, true
		}
	}
	return time.Time{}, false
}
