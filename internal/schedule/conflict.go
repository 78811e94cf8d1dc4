package schedule

import "velora/internal/domain"

// BookingRequest is a candidate booking prior to persistence.
type BookingRequest struct {
	Date          string `json:"date"`           // "YYYY-MM-DD"
	Time          string `json:"time"`           // "HH:MM"
	DurationHours int    `json:"duration_hours"` // >= 1
}

// BookingWindow is the slice of an existing booking the engine needs for
// conflict checking.
type BookingWindow struct {
	Date          string
	Time          string
	DurationHours int
	Status        string
}

// RangesOverlap reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) in minutes overlap. Touching boundaries do not overlap, so
// back-to-back bookings are allowed.
func RangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// bookingRange returns the absolute [start, end) minute range of a booking on
// its own date. End is not reduced modulo 24h, so a booking running past
// midnight keeps end > start and overlap math stays correct.
func bookingRange(t string, durationHours int) (start, end int, err error) {
	start, err = parseClock(t)
	if err != nil {
		return 0, 0, err
	}
	return start, start + durationHours*60, nil
}

// HasConflict reports whether the candidate overlaps any existing booking for
// the same companion on the same date. Bookings whose status no longer blocks
// the slot (cancelled, rejected, expired) are ignored, as are entries with
// unparseable times. An empty or fully-filtered list never conflicts.
func HasConflict(req BookingRequest, existing []BookingWindow) bool {
	reqStart, reqEnd, err := bookingRange(req.Time, req.DurationHours)
	if err != nil {
		return false
	}
	for _, b := range existing {
		if b.Date != req.Date || !domain.BlocksSlot(b.Status) {
			continue
		}
		bStart, bEnd, err := bookingRange(b.Time, b.DurationHours)
		if err != nil {
			continue
		}
		if RangesOverlap(reqStart, reqEnd, bStart, bEnd) {
			return true
		}
	}
	return false
}
