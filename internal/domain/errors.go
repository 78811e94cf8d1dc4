package domain

import (
	"errors"
	"strings"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
)

var (
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrActorNotAllowed   = errors.New("actor may not perform this transition")
	ErrBookingConflict   = errors.New("requested time overlaps an existing booking")
	ErrDuplicateReview   = errors.New("review already submitted for this booking")
	ErrReviewNotOpen     = errors.New("reviews are only allowed on completed bookings")
	ErrNotParticipant    = errors.New("user is not part of this booking")
	ErrChatUnavailable   = errors.New("chat is not available for this booking")
)

// ValidationError carries every reason a booking request is malformed so the
// caller can surface all of them at once.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "invalid booking request: " + strings.Join(e.Reasons, "; ")
}
