// Package schedule computes bookable slots and conflicts for a companion's
// calendar. Everything here is pure: inputs in, values out, no clock reads and
// no I/O. Wall-clock times cross the package boundary as "HH:MM" strings but
// are handled internally as minutes since midnight, so comparisons never
// depend on lexicographic ordering of wrapped end times.
package schedule

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format used by bookings ("YYYY-MM-DD").
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

// parseClock converts "HH:MM" on a 24-hour clock to minutes since midnight.
// Every byte is checked; Sscanf-style parsing would accept trailing garbage.
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// formatClock converts minutes since midnight back to "HH:MM", wrapping modulo
// 24 hours.
func formatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// parseDate converts "YYYY-MM-DD" to a UTC date.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// ComputeEndTime adds durationHours to a "HH:MM" start time, wrapping past
// midnight. A wrapped result is numerically smaller than its start; callers
// must not compare the two strings lexicographically. Conflict checks in this
// package never do: they work on absolute minutes (see bookingRange).
// An unparseable start yields "".
func ComputeEndTime(start string, durationHours int) string {
	m, err := parseClock(start)
	if err != nil {
		return ""
	}
	return formatClock(m + durationHours*60)
}
