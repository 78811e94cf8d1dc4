package schedule

import (
	"testing"

	"velora/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRangesOverlap_Symmetric(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     int
		want                           bool
	}{
		{"identical", 540, 600, 540, 600, true},
		{"contained", 540, 720, 570, 600, true},
		{"partial", 540, 600, 570, 660, true},
		{"touching end to start", 540, 600, 600, 660, false},
		{"disjoint", 540, 600, 720, 780, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RangesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd), tc.name)
		assert.Equal(t, tc.want, RangesOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd), tc.name+" (swapped)")
	}
}

func TestHasConflict_BackToBackAllowed(t *testing.T) {
	existing := []BookingWindow{
		{Date: monday, Time: "10:00", DurationHours: 2, Status: domain.BookingStatusAccepted},
	}

	before := BookingRequest{Date: monday, Time: "09:00", DurationHours: 1}
	after := BookingRequest{Date: monday, Time: "12:00", DurationHours: 1}

	assert.False(t, HasConflict(before, existing))
	assert.False(t, HasConflict(after, existing))
}

func TestHasConflict_OverlapDetected(t *testing.T) {
	existing := []BookingWindow{
		{Date: monday, Time: "10:00", DurationHours: 2, Status: domain.BookingStatusPending},
	}

	assert.True(t, HasConflict(BookingRequest{Date: monday, Time: "11:00", DurationHours: 1}, existing))
	assert.True(t, HasConflict(BookingRequest{Date: monday, Time: "09:00", DurationHours: 2}, existing))
	assert.True(t, HasConflict(BookingRequest{Date: monday, Time: "09:00", DurationHours: 5}, existing), "candidate swallows existing")
}

func TestHasConflict_NonBlockingStatusesIgnored(t *testing.T) {
	req := BookingRequest{Date: monday, Time: "10:00", DurationHours: 1}
	for _, status := range []string{domain.BookingStatusCancelled, domain.BookingStatusRejected, domain.BookingStatusExpired} {
		existing := []BookingWindow{{Date: monday, Time: "10:00", DurationHours: 1, Status: status}}
		assert.False(t, HasConflict(req, existing), status)
	}
}

func TestHasConflict_DifferentDate(t *testing.T) {
	existing := []BookingWindow{
		{Date: "2024-01-16", Time: "10:00", DurationHours: 1, Status: domain.BookingStatusAccepted},
	}

	assert.False(t, HasConflict(BookingRequest{Date: monday, Time: "10:00", DurationHours: 1}, existing))
}

func TestHasConflict_EmptyList(t *testing.T) {
	assert.False(t, HasConflict(BookingRequest{Date: monday, Time: "10:00", DurationHours: 1}, nil))
}

func TestHasConflict_PastMidnight(t *testing.T) {
	// 23:00 + 2h runs to 01:00 the next day; its end must not wrap below its
	// start for same-date comparisons.
	existing := []BookingWindow{
		{Date: monday, Time: "23:00", DurationHours: 2, Status: domain.BookingStatusAccepted},
	}

	assert.True(t, HasConflict(BookingRequest{Date: monday, Time: "23:00", DurationHours: 1}, existing))
	assert.False(t, HasConflict(BookingRequest{Date: monday, Time: "22:00", DurationHours: 1}, existing))
}

func TestHasConflict_UnparseableEntriesSkipped(t *testing.T) {
	existing := []BookingWindow{
		{Date: monday, Time: "garbage", DurationHours: 1, Status: domain.BookingStatusAccepted},
	}

	assert.False(t, HasConflict(BookingRequest{Date: monday, Time: "10:00", DurationHours: 1}, existing))
}
