package schedule

import "time"

// ValidationResult aggregates every problem with a booking request so the
// caller can surface them all at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateBookingRequest checks a candidate booking for shape and timing
// problems, collecting all failures rather than stopping at the first. The
// current time is injected so callers (and tests) control "now". Unparseable
// date or time strings are reported as validation errors, never surfaced as
// raw parse failures.
func ValidateBookingRequest(req BookingRequest, now time.Time) ValidationResult {
	var errs []string

	var day time.Time
	dateOK := false
	if req.Date == "" {
		errs = append(errs, "date is required")
	} else if d, err := parseDate(req.Date); err != nil {
		errs = append(errs, "date must be in YYYY-MM-DD format")
	} else {
		day = d
		dateOK = true
	}

	startMin := 0
	timeOK := false
	if req.Time == "" {
		errs = append(errs, "time is required")
	} else if m, err := parseClock(req.Time); err != nil {
		errs = append(errs, "time must be in HH:MM format")
	} else {
		startMin = m
		timeOK = true
	}

	if req.DurationHours < 1 {
		errs = append(errs, "duration must be at least 1 hour")
	}

	if dateOK && timeOK {
		startsAt := time.Date(day.Year(), day.Month(), day.Day(), startMin/60, startMin%60, 0, 0, now.Location())
		if startsAt.Before(now) {
			errs = append(errs, "booking date and time cannot be in the past")
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
