package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func TestValidateBookingRequest_Valid(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{Date: monday, Time: "10:00", DurationHours: 2}, testNow)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateBookingRequest_CollectsAllErrors(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{}, testNow)

	require.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors, "date is required")
	assert.Contains(t, res.Errors, "time is required")
	assert.Contains(t, res.Errors, "duration must be at least 1 hour")
}

func TestValidateBookingRequest_BadFormats(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{Date: "15/01/2024", Time: "10am", DurationHours: 1}, testNow)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "date must be in YYYY-MM-DD format")
	assert.Contains(t, res.Errors, "time must be in HH:MM format")
}

func TestValidateBookingRequest_PastRejected(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{Date: "2024-01-09", Time: "10:00", DurationHours: 1}, testNow)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "booking date and time cannot be in the past")
}

func TestValidateBookingRequest_EarlierTodayRejected(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{Date: "2024-01-10", Time: "09:00", DurationHours: 1}, testNow)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "booking date and time cannot be in the past")
}

func TestValidateBookingRequest_LaterTodayAllowed(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{Date: "2024-01-10", Time: "14:00", DurationHours: 1}, testNow)

	assert.True(t, res.Valid)
}

func TestValidateBookingRequest_ZeroDuration(t *testing.T) {
	res := ValidateBookingRequest(BookingRequest{Date: monday, Time: "10:00", DurationHours: 0}, testNow)

	require.False(t, res.Valid)
	assert.Equal(t, []string{"duration must be at least 1 hour"}, res.Errors)
}

func TestValidateBookingRequest_Idempotent(t *testing.T) {
	req := BookingRequest{Date: "bogus", Time: "", DurationHours: -1}

	first := ValidateBookingRequest(req, testNow)
	second := ValidateBookingRequest(req, testNow)

	assert.Equal(t, first, second)
}
