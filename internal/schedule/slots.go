package schedule

import "time"

// DefaultSlotMinutes is the granularity at which slots are offered. Bookings
// may span several hours; slot listing always works in one-hour units.
const DefaultSlotMinutes = 60

// DayAvailability is one weekday's bookable window. StartTime must precede
// EndTime on the same day when Enabled; overnight windows are not supported.
type DayAvailability struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Valid reports whether an enabled day carries a well-formed window. Disabled
// days are always valid; their times are ignored.
func (d DayAvailability) Valid() bool {
	if !d.Enabled {
		return true
	}
	s, err := parseClock(d.StartTime)
	if err != nil {
		return false
	}
	e, err := parseClock(d.EndTime)
	if err != nil {
		return false
	}
	return s < e
}

// WeeklyAvailability maps each weekday to its window. A missing day counts as
// disabled.
type WeeklyAvailability map[time.Weekday]DayAvailability

// GenerateCandidateSlots returns every "HH:MM" time point from start inclusive
// up to but not including end, stepping by intervalMinutes (default 60).
// The sequence is deterministic and ascending. An invalid or inverted window
// yields nil.
func GenerateCandidateSlots(start, end string, intervalMinutes int) []string {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultSlotMinutes
	}
	s, err := parseClock(start)
	if err != nil {
		return nil
	}
	e, err := parseClock(end)
	if err != nil || s >= e {
		return nil
	}
	slots := make([]string, 0, (e-s)/intervalMinutes)
	for m := s; m < e; m += intervalMinutes {
		slots = append(slots, formatClock(m))
	}
	return slots
}

// AvailableSlots returns the ascending list of one-hour start times a client
// may book with a companion on the given date. The day's window gates the
// candidates; existing bookings knock out conflicting ones. A disabled or
// absent day yields an empty list regardless of bookings.
//
// Slots are checked at one-hour granularity: a returned slot is not a
// guarantee for a multi-hour request. Callers must re-run HasConflict with the
// real duration before committing (the booking repository does this inside its
// insert transaction).
func AvailableSlots(date string, week WeeklyAvailability, existing []BookingWindow) []string {
	d, err := parseDate(date)
	if err != nil {
		return []string{}
	}
	day, ok := week[d.Weekday()]
	if !ok || !day.Enabled {
		return []string{}
	}
	candidates := GenerateCandidateSlots(day.StartTime, day.EndTime, DefaultSlotMinutes)
	slots := make([]string, 0, len(candidates))
	for _, t := range candidates {
		req := BookingRequest{Date: date, Time: t, DurationHours: 1}
		if !HasConflict(req, existing) {
			slots = append(slots, t)
		}
	}
	return slots
}

// WithinWindow reports whether a booking starting at t for durationHours fits
// the day's availability window. Used when creating bookings so a client
// cannot book outside the hours the companion offers.
func WithinWindow(day DayAvailability, t string, durationHours int) bool {
	if !day.Enabled {
		return false
	}
	start, err := parseClock(day.StartTime)
	if err != nil {
		return false
	}
	end, err := parseClock(day.EndTime)
	if err != nil {
		return false
	}
	at, err := parseClock(t)
	if err != nil {
		return false
	}
	return at >= start && at+durationHours*60 <= end
}
