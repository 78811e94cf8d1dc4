package service

import (
	"testing"

	"velora/internal/domain"
	"velora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewStore struct {
	created  []*models.Review
	existing map[[2]uint]bool
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{existing: make(map[[2]uint]bool)}
}

func (f *fakeReviewStore) Create(rv *models.Review) error {
	rv.ID = uint(len(f.created) + 1)
	f.created = append(f.created, rv)
	f.existing[[2]uint{rv.BookingID, rv.ReviewerID}] = true
	return nil
}

func (f *fakeReviewStore) ExistsByBookingAndReviewer(bookingID, reviewerID uint) (bool, error) {
	return f.existing[[2]uint{bookingID, reviewerID}], nil
}

func completedBooking() *models.Booking {
	return &models.Booking{
		ID:          5,
		ClientID:    clientUserID,
		CompanionID: companionID,
		Status:      domain.BookingStatusCompleted,
		Companion:   models.CompanionProfile{ID: companionID, UserID: companionUserID},
	}
}

func reviewFixture(b *models.Booking) (*ReviewService, *fakeReviewStore, *fakeNotifier) {
	store := newFakeReviewStore()
	bookings := newFakeBookingStore()
	bookings.bookings[b.ID] = b
	notifier := &fakeNotifier{}
	return NewReviewService(store, bookings, notifier), store, notifier
}

func TestReviewService_Submit(t *testing.T) {
	svc, store, notifier := reviewFixture(completedBooking())

	rv, err := svc.Submit(5, clientUserID, 4, "great company")

	require.NoError(t, err)
	assert.Equal(t, clientUserID, rv.ReviewerID)
	assert.Equal(t, companionUserID, rv.RevieweeID)
	assert.Equal(t, 4, rv.Rating)
	assert.Equal(t, "great company", rv.Comment)
	require.Len(t, store.created, 1)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, companionUserID, notifier.sent[0].userID)
	assert.Equal(t, "NEW_REVIEW", notifier.sent[0].notifType)
}

func TestReviewService_Submit_CompanionReviewsClient(t *testing.T) {
	svc, _, notifier := reviewFixture(completedBooking())

	rv, err := svc.Submit(5, companionUserID, 5, "")

	require.NoError(t, err)
	assert.Equal(t, companionUserID, rv.ReviewerID)
	assert.Equal(t, clientUserID, rv.RevieweeID)
	assert.Equal(t, clientUserID, notifier.sent[0].userID)
}

func TestReviewService_Submit_RatingOutOfRange(t *testing.T) {
	svc, _, _ := reviewFixture(completedBooking())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(5, clientUserID, rating, "")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	}
}

func TestReviewService_Submit_Stranger(t *testing.T) {
	svc, _, _ := reviewFixture(completedBooking())

	_, err := svc.Submit(5, 999, 4, "")

	assert.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestReviewService_Submit_NotCompleted(t *testing.T) {
	for _, status := range []string{
		domain.BookingStatusPending,
		domain.BookingStatusAccepted,
		domain.BookingStatusCancelled,
		domain.BookingStatusRejected,
		domain.BookingStatusExpired,
	} {
		b := completedBooking()
		b.Status = status
		svc, _, _ := reviewFixture(b)

		_, err := svc.Submit(5, clientUserID, 4, "")

		assert.ErrorIs(t, err, domain.ErrReviewNotOpen, status)
	}
}

func TestReviewService_Submit_Duplicate(t *testing.T) {
	svc, _, _ := reviewFixture(completedBooking())

	_, err := svc.Submit(5, clientUserID, 4, "first")
	require.NoError(t, err)

	_, err = svc.Submit(5, clientUserID, 5, "second")
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)

	// the other party can still review
	_, err = svc.Submit(5, companionUserID, 5, "")
	assert.NoError(t, err)
}

func TestReviewService_Submit_MissingBooking(t *testing.T) {
	svc, _, _ := reviewFixture(completedBooking())

	_, err := svc.Submit(404, clientUserID, 4, "")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
