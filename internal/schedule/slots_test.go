package schedule

import (
	"testing"
	"time"

	"velora/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-15 is a Monday.
const monday = "2024-01-15"

func weekWith(day time.Weekday, start, end string) WeeklyAvailability {
	return WeeklyAvailability{
		day: {Enabled: true, StartTime: start, EndTime: end},
	}
}

func TestGenerateCandidateSlots_HourlySteps(t *testing.T) {
	slots := GenerateCandidateSlots("09:00", "17:00", 60)

	require.Len(t, slots, 8)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:00", slots[7])
	// end itself is never offered
	assert.NotContains(t, slots, "17:00")
}

func TestGenerateCandidateSlots_DefaultsToHourly(t *testing.T) {
	assert.Equal(t, GenerateCandidateSlots("09:00", "12:00", 60), GenerateCandidateSlots("09:00", "12:00", 0))
}

func TestGenerateCandidateSlots_InvertedWindow(t *testing.T) {
	assert.Nil(t, GenerateCandidateSlots("17:00", "09:00", 60))
	assert.Nil(t, GenerateCandidateSlots("09:00", "09:00", 60))
	assert.Nil(t, GenerateCandidateSlots("bogus", "17:00", 60))
}

func TestAvailableSlots_FullDay(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")

	slots := AvailableSlots(monday, week, nil)

	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, slots)
}

func TestAvailableSlots_BookedHourRemoved(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")
	existing := []BookingWindow{
		{Date: monday, Time: "13:00", DurationHours: 1, Status: domain.BookingStatusAccepted},
	}

	slots := AvailableSlots(monday, week, existing)

	assert.NotContains(t, slots, "13:00")
	assert.Len(t, slots, 7)
}

func TestAvailableSlots_MultiHourBookingBlocksEachHour(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")
	existing := []BookingWindow{
		{Date: monday, Time: "10:00", DurationHours: 3, Status: domain.BookingStatusPending},
	}

	slots := AvailableSlots(monday, week, existing)

	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "11:00")
	assert.NotContains(t, slots, "12:00")
	assert.Contains(t, slots, "09:00")
	assert.Contains(t, slots, "13:00")
}

func TestAvailableSlots_CancelledBookingsDoNotBlock(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")
	existing := []BookingWindow{
		{Date: monday, Time: "10:00", DurationHours: 1, Status: domain.BookingStatusCancelled},
		{Date: monday, Time: "11:00", DurationHours: 1, Status: domain.BookingStatusRejected},
		{Date: monday, Time: "12:00", DurationHours: 1, Status: domain.BookingStatusExpired},
	}

	slots := AvailableSlots(monday, week, existing)

	assert.Contains(t, slots, "10:00")
	assert.Contains(t, slots, "11:00")
	assert.Contains(t, slots, "12:00")
	assert.Len(t, slots, 8)
}

func TestAvailableSlots_OtherDatesIgnored(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")
	existing := []BookingWindow{
		{Date: "2024-01-22", Time: "09:00", DurationHours: 8, Status: domain.BookingStatusAccepted},
	}

	slots := AvailableSlots(monday, week, existing)

	assert.Len(t, slots, 8)
}

func TestAvailableSlots_DisabledDayIsEmpty(t *testing.T) {
	week := WeeklyAvailability{
		time.Saturday: {Enabled: false, StartTime: "09:00", EndTime: "17:00"},
	}

	// 2024-01-20 is a Saturday.
	slots := AvailableSlots("2024-01-20", week, nil)

	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestAvailableSlots_AbsentDayIsEmpty(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")

	// 2024-01-16 is a Tuesday, which has no row at all.
	slots := AvailableSlots("2024-01-16", week, nil)

	assert.Empty(t, slots)
}

func TestAvailableSlots_BadDateIsEmpty(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")

	assert.Empty(t, AvailableSlots("15-01-2024", week, nil))
	assert.Empty(t, AvailableSlots("", week, nil))
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	week := weekWith(time.Monday, "09:00", "17:00")
	existing := []BookingWindow{
		{Date: monday, Time: "13:00", DurationHours: 1, Status: domain.BookingStatusAccepted},
	}

	first := AvailableSlots(monday, week, existing)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AvailableSlots(monday, week, existing))
	}
}

func TestWithinWindow(t *testing.T) {
	day := DayAvailability{Enabled: true, StartTime: "09:00", EndTime: "17:00"}

	assert.True(t, WithinWindow(day, "09:00", 1))
	assert.True(t, WithinWindow(day, "09:00", 8))
	assert.True(t, WithinWindow(day, "16:00", 1))

	assert.False(t, WithinWindow(day, "16:00", 2), "runs past the window end")
	assert.False(t, WithinWindow(day, "08:00", 1), "before the window")
	assert.False(t, WithinWindow(DayAvailability{}, "09:00", 1), "disabled day")
}

func TestDayAvailability_Valid(t *testing.T) {
	assert.True(t, DayAvailability{Enabled: true, StartTime: "09:00", EndTime: "17:00"}.Valid())
	assert.True(t, DayAvailability{}.Valid(), "disabled day needs no window")

	assert.False(t, DayAvailability{Enabled: true, StartTime: "17:00", EndTime: "09:00"}.Valid())
	assert.False(t, DayAvailability{Enabled: true, StartTime: "09:00", EndTime: "09:00"}.Valid())
	assert.False(t, DayAvailability{Enabled: true, StartTime: "9am", EndTime: "17:00"}.Valid())
}
