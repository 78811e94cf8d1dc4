package service

import (
	"velora/internal/domain"
	"velora/internal/models"
)

type ReviewStore interface {
	Create(rv *models.Review) error
	ExistsByBookingAndReviewer(bookingID, reviewerID uint) (bool, error)
}

type bookingGetter interface {
	GetByID(id uint) (*models.Booking, error)
}

// ReviewService enforces review eligibility: one review per participant, only
// once the booking is completed.
type ReviewService struct {
	reviews  ReviewStore
	bookings bookingGetter
	notifier Notifier
}

func NewReviewService(reviews ReviewStore, bookings bookingGetter, notifier Notifier) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, notifier: notifier}
}

func (s *ReviewService) Submit(bookingID, reviewerID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, &domain.ValidationError{Reasons: []string{"rating must be between 1 and 5"}}
	}
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	var revieweeID uint
	switch reviewerID {
	case b.ClientID:
		revieweeID = b.Companion.UserID
	case b.Companion.UserID:
		revieweeID = b.ClientID
	default:
		return nil, domain.ErrNotParticipant
	}
	if domain.NormalizeStatus(b.Status) != domain.BookingStatusCompleted {
		return nil, domain.ErrReviewNotOpen
	}
	exists, err := s.reviews.ExistsByBookingAndReviewer(bookingID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateReview
	}
	rv := &models.Review{
		BookingID:  bookingID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(rv); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.Notify(revieweeID, "NEW_REVIEW", "New review",
			"You received a new review", map[string]interface{}{"booking_id": bookingID})
	}
	return rv, nil
}
