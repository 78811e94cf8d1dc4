package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"velora/config"
	"velora/internal/domain"
	"velora/internal/models"
	"velora/internal/schedule"
	"velora/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Hand-rolled fakes; the store interfaces are small enough that generated
// mocks would be more code than these.

type fakeBookingStore struct {
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uint]*models.Booking), nextID: 1}
}

func (f *fakeBookingStore) CreateIfNoConflict(b *models.Booking) error {
	b.ID = f.nextID
	f.nextID++
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingStore) GetByID(id uint) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingStore) Update(b *models.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingStore) ListBlockingByCompanionAndDate(companionID uint, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CompanionID == companionID && b.Date == date && domain.BlocksSlot(b.Status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListPendingExpired(now time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == domain.BookingStatusPending && b.ExpiresAt != nil && b.ExpiresAt.Before(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeCompanionStore struct {
	profiles map[uint]*models.CompanionProfile
}

func (f *fakeCompanionStore) GetByID(id uint) (*models.CompanionProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeCompanionStore) GetByUserID(userID uint) (*models.CompanionProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeAvailabilityStore struct {
	rows []models.CompanionAvailability
}

func (f *fakeAvailabilityStore) GetWeek(companionID uint) ([]models.CompanionAvailability, error) {
	return f.rows, nil
}

type fakePaymentStore struct {
	payments map[uint]*models.Payment
}

func (f *fakePaymentStore) GetByID(id uint) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

func (f *fakePaymentStore) Update(p *models.Payment) error {
	f.payments[p.ID] = p
	return nil
}

type walletCredit struct {
	userID      uint
	amountCents int64
	txType      string
	bookingID   uint
}

type fakeWalletStore struct {
	credits []walletCredit
}

func (f *fakeWalletStore) Credit(userID uint, amountCents int64, txType string, bookingID uint) error {
	f.credits = append(f.credits, walletCredit{userID, amountCents, txType, bookingID})
	return nil
}

type notified struct {
	userID    uint
	notifType string
}

type fakeNotifier struct {
	sent []notified
}

func (f *fakeNotifier) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	f.sent = append(f.sent, notified{userID, notifType})
	return nil
}

type fakeChatCloser struct {
	removed []uint
}

func (f *fakeChatCloser) RemoveRoom(bookingID uint) {
	f.removed = append(f.removed, bookingID)
}

type fakeProvider struct {
	refunds   []string
	refundErr error
}

func (f *fakeProvider) InitiatePayment(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentResponse, error) {
	return &payment.PaymentResponse{Reference: "ref", Status: "PENDING"}, nil
}

func (f *fakeProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	return true, nil
}

func (f *fakeProvider) Refund(ctx context.Context, reference string, amountCents int64) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunds = append(f.refunds, reference)
	return nil
}

type fixture struct {
	svc      *BookingService
	bookings *fakeBookingStore
	payments *fakePaymentStore
	wallets  *fakeWalletStore
	notifier *fakeNotifier
	provider *fakeProvider
	chat     *fakeChatCloser
}

const (
	clientUserID    = uint(1)
	companionUserID = uint(2)
	companionID     = uint(10)
)

// testNow is a Wednesday morning; the Monday being booked is five days out.
var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

const monday = "2024-01-15"

func newFixture() *fixture {
	cfg := config.Load()
	bookings := newFakeBookingStore()
	companions := &fakeCompanionStore{profiles: map[uint]*models.CompanionProfile{
		companionID: {
			ID:                companionID,
			UserID:            companionUserID,
			DisplayName:       "Ada",
			HourlyRateCents:   500000,
			IsActive:          true,
			AcceptNewBookings: true,
		},
	}}
	availability := &fakeAvailabilityStore{rows: []models.CompanionAvailability{
		{CompanionID: companionID, DayOfWeek: int(time.Monday), Enabled: true, StartTime: "09:00", EndTime: "17:00"},
	}}
	payments := &fakePaymentStore{payments: make(map[uint]*models.Payment)}
	wallets := &fakeWalletStore{}
	notifier := &fakeNotifier{}
	provider := &fakeProvider{}
	chat := &fakeChatCloser{}
	svc := NewBookingService(cfg, bookings, companions, availability, payments, wallets, provider, notifier, chat, nil)
	return &fixture{svc: svc, bookings: bookings, payments: payments, wallets: wallets, notifier: notifier, provider: provider, chat: chat}
}

func (f *fixture) createPending(t *testing.T) *models.Booking {
	t.Helper()
	b, err := f.svc.Create(clientUserID, companionID, schedule.BookingRequest{
		Date: monday, Time: "10:00", DurationHours: 2,
	}, testNow)
	require.NoError(t, err)
	// resolveActor reads the preloaded companion; the fake store has no
	// preloading so set it directly.
	b.Companion = models.CompanionProfile{ID: companionID, UserID: companionUserID}
	return b
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture()

	b := f.createPending(t)

	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, b.PaymentStatus)
	assert.Equal(t, int64(1000000), b.AmountCents, "2h at the hourly rate")
	require.NotNil(t, b.ExpiresAt)
	assert.Equal(t, testNow.Add(30*time.Minute), *b.ExpiresAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, companionUserID, f.notifier.sent[0].userID)
	assert.Equal(t, "BOOKING_REQUESTED", f.notifier.sent[0].notifType)
}

func TestBookingService_Create_InvalidRequest(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(clientUserID, companionID, schedule.BookingRequest{}, testNow)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Reasons, 3)
}

func TestBookingService_Create_UnknownCompanion(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(clientUserID, 404, schedule.BookingRequest{
		Date: monday, Time: "10:00", DurationHours: 1,
	}, testNow)

	assert.ErrorIs(t, err, ErrCompanionNotFound)
}

func TestBookingService_Create_SelfBooking(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(companionUserID, companionID, schedule.BookingRequest{
		Date: monday, Time: "10:00", DurationHours: 1,
	}, testNow)

	assert.ErrorIs(t, err, ErrSelfBooking)
}

func TestBookingService_Create_CompanionPaused(t *testing.T) {
	f := newFixture()
	profile, _ := f.svc.companions.GetByID(companionID)
	profile.AcceptNewBookings = false

	_, err := f.svc.Create(clientUserID, companionID, schedule.BookingRequest{
		Date: monday, Time: "10:00", DurationHours: 1,
	}, testNow)

	assert.ErrorIs(t, err, ErrCompanionUnavailable)
}

func TestBookingService_Create_OutsideAvailability(t *testing.T) {
	f := newFixture()

	// Monday window is 09:00-17:00; 16:00 + 2h overruns it.
	_, err := f.svc.Create(clientUserID, companionID, schedule.BookingRequest{
		Date: monday, Time: "16:00", DurationHours: 2,
	}, testNow)
	assert.ErrorIs(t, err, ErrOutsideAvailability)

	// Tuesday has no availability at all.
	_, err = f.svc.Create(clientUserID, companionID, schedule.BookingRequest{
		Date: "2024-01-16", Time: "10:00", DurationHours: 1,
	}, testNow)
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestBookingService_Create_Conflict(t *testing.T) {
	f := newFixture()
	f.createPending(t)

	_, err := f.svc.Create(clientUserID, companionID, schedule.BookingRequest{
		Date: monday, Time: "11:00", DurationHours: 1,
	}, testNow)

	assert.ErrorIs(t, err, domain.ErrBookingConflict)
}

func TestBookingService_Create_BackToBackAllowed(t *testing.T) {
	f := newFixture()
	f.createPending(t) // 10:00-12:00

	b, err := f.svc.Create(clientUserID, companionID, schedule.BookingRequest{
		Date: monday, Time: "12:00", DurationHours: 1,
	}, testNow)

	require.NoError(t, err)
	assert.Equal(t, "12:00", b.Time)
}

func TestBookingService_Slots(t *testing.T) {
	f := newFixture()
	f.createPending(t) // blocks 10:00 and 11:00

	slots, err := f.svc.Slots(companionID, monday)

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, slots)
}

func TestBookingService_Accept(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	f.notifier.sent = nil

	got, err := f.svc.Accept(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusAccepted, got.Status)
	assert.Nil(t, got.ExpiresAt)
	require.NotNil(t, got.AcceptedAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, clientUserID, f.notifier.sent[0].userID)
	assert.Equal(t, "BOOKING_ACCEPTED", f.notifier.sent[0].notifType)
}

func TestBookingService_Accept_ByClientForbidden(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)

	_, err := f.svc.Accept(b.ID, clientUserID, testNow)

	assert.ErrorIs(t, err, domain.ErrActorNotAllowed)
}

func TestBookingService_Transition_Stranger(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)

	_, err := f.svc.Accept(b.ID, 999, testNow)

	assert.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestBookingService_Reject_UnpaidNoRefund(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)

	got, err := f.svc.Reject(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRejected, got.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, got.PaymentStatus)
	assert.Empty(t, f.provider.refunds)
}

func payBooking(f *fixture, b *models.Booking) *models.Payment {
	p := &models.Payment{ID: 77, UserID: b.ClientID, BookingID: &b.ID, AmountCents: b.AmountCents, ProviderRef: "ps_ref_77", Status: domain.GatewayStatusCompleted}
	f.payments.payments[p.ID] = p
	b.PaymentStatus = domain.PaymentStatusPaid
	b.PaymentID = &p.ID
	return p
}

func TestBookingService_Reject_PaidRefunds(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	p := payBooking(f, b)

	got, err := f.svc.Reject(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRejected, got.Status)
	assert.Equal(t, domain.PaymentStatusRefunded, got.PaymentStatus)
	assert.Equal(t, []string{"ps_ref_77"}, f.provider.refunds)
	assert.Equal(t, domain.GatewayStatusRefunded, p.Status)
	require.NotNil(t, p.RefundedAt)
}

func TestBookingService_Reject_RefundFailureAbortsTransition(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	payBooking(f, b)
	f.provider.refundErr = errors.New("gateway down")

	_, err := f.svc.Reject(b.ID, companionUserID, testNow)

	require.Error(t, err)
	stored, _ := f.bookings.GetByID(b.ID)
	assert.Equal(t, domain.BookingStatusPending, stored.Status, "status must not move when the refund fails")
	assert.Equal(t, domain.PaymentStatusPaid, stored.PaymentStatus)
}

func TestBookingService_Cancel_ByEitherParty(t *testing.T) {
	for _, actor := range []uint{clientUserID, companionUserID} {
		f := newFixture()
		b := f.createPending(t)
		payBooking(f, b)
		_, err := f.svc.Accept(b.ID, companionUserID, testNow)
		require.NoError(t, err)

		got, err := f.svc.Cancel(b.ID, actor, testNow)

		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
		assert.Equal(t, domain.PaymentStatusRefunded, got.PaymentStatus)
	}
}

func TestBookingService_Cancel_PendingForbidden(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)

	_, err := f.svc.Cancel(b.ID, clientUserID, testNow)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestBookingService_Complete_SplitsWithPlatformFee(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	payBooking(f, b)
	_, err := f.svc.Accept(b.ID, companionUserID, testNow)
	require.NoError(t, err)

	got, err := f.svc.Complete(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, got.Status)
	assert.Equal(t, domain.PaymentStatusSplit, got.PaymentStatus)
	require.NotNil(t, got.CompletedAt)

	// 20% platform fee on 1,000,000 leaves 800,000 for the companion.
	require.Len(t, f.wallets.credits, 1)
	credit := f.wallets.credits[0]
	assert.Equal(t, companionUserID, credit.userID)
	assert.Equal(t, int64(800000), credit.amountCents)
	assert.Equal(t, "EARNING", credit.txType)
	assert.Equal(t, b.ID, credit.bookingID)
}

func TestBookingService_ChatRoomKeptWhileAccepted(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)

	_, err := f.svc.Accept(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Empty(t, f.chat.removed)
}

func TestBookingService_ChatRoomTornDownOnCancel(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	_, err := f.svc.Accept(b.ID, companionUserID, testNow)
	require.NoError(t, err)

	_, err = f.svc.Cancel(b.ID, clientUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, f.chat.removed)
}

func TestBookingService_ChatRoomTornDownOnComplete(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	_, err := f.svc.Accept(b.ID, companionUserID, testNow)
	require.NoError(t, err)

	_, err = f.svc.Complete(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, f.chat.removed)
}

func TestBookingService_Complete_UnpaidNoSplit(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	_, err := f.svc.Accept(b.ID, companionUserID, testNow)
	require.NoError(t, err)

	got, err := f.svc.Complete(b.ID, companionUserID, testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, got.Status)
	assert.Empty(t, f.wallets.credits)
}

func TestBookingService_ExpirePending(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	f.notifier.sent = nil

	later := testNow.Add(time.Hour)
	expired, err := f.svc.ExpirePending(later)

	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, b.ID, expired[0].ID)
	assert.Equal(t, domain.BookingStatusExpired, expired[0].Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, clientUserID, f.notifier.sent[0].userID)
	assert.Equal(t, "BOOKING_EXPIRED", f.notifier.sent[0].notifType)
}

func TestBookingService_ExpirePending_NotYetDue(t *testing.T) {
	f := newFixture()
	f.createPending(t)

	expired, err := f.svc.ExpirePending(testNow.Add(10 * time.Minute))

	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestBookingService_ExpirePending_RefundsPaid(t *testing.T) {
	f := newFixture()
	b := f.createPending(t)
	payBooking(f, b)

	expired, err := f.svc.ExpirePending(testNow.Add(time.Hour))

	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, domain.PaymentStatusRefunded, expired[0].PaymentStatus)
	assert.Equal(t, []string{"ps_ref_77"}, f.provider.refunds)
}

func TestBookingService_ExpiredSlotReopens(t *testing.T) {
	f := newFixture()
	f.createPending(t)
	_, err := f.svc.ExpirePending(testNow.Add(time.Hour))
	require.NoError(t, err)

	slots, err := f.svc.Slots(companionID, monday)

	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
	assert.Contains(t, slots, "11:00")
}
