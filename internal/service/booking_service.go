package service

import (
	"context"
	"errors"
	"log"
	"time"

	"velora/config"
	"velora/internal/domain"
	"velora/internal/models"
	"velora/internal/schedule"
	"velora/pkg/events"
	"velora/pkg/payment"

	"gorm.io/gorm"
)

// Narrow store interfaces so the service can be tested without a database.
// The gorm repositories satisfy them.

type BookingStore interface {
	CreateIfNoConflict(b *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	Update(b *models.Booking) error
	ListBlockingByCompanionAndDate(companionID uint, date string) ([]models.Booking, error)
	ListPendingExpired(now time.Time) ([]models.Booking, error)
}

type CompanionStore interface {
	GetByID(id uint) (*models.CompanionProfile, error)
	GetByUserID(userID uint) (*models.CompanionProfile, error)
}

type AvailabilityStore interface {
	GetWeek(companionID uint) ([]models.CompanionAvailability, error)
}

type PaymentStore interface {
	GetByID(id uint) (*models.Payment, error)
	Update(p *models.Payment) error
}

type WalletStore interface {
	Credit(userID uint, amountCents int64, txType string, bookingID uint) error
}

type Notifier interface {
	Notify(userID uint, notifType, title, body string, data map[string]interface{}) error
}

// ChatCloser tears down a booking's chat room. Satisfied by ws.ChatHub.
type ChatCloser interface {
	RemoveRoom(bookingID uint)
}

var (
	ErrCompanionNotFound    = errors.New("companion not found")
	ErrCompanionUnavailable = errors.New("companion is not accepting bookings")
	ErrOutsideAvailability  = errors.New("requested time is outside the companion's availability")
	ErrSelfBooking          = errors.New("cannot book yourself")
)

// BookingService owns booking creation and every lifecycle transition,
// applying the payment and notification side effects each transition implies.
type BookingService struct {
	cfg          *config.Config
	bookings     BookingStore
	companions   CompanionStore
	availability AvailabilityStore
	payments     PaymentStore
	wallets      WalletStore
	provider     payment.Provider
	notifier     Notifier
	chat         ChatCloser
	publisher    *events.Publisher
}

func NewBookingService(
	cfg *config.Config,
	bookings BookingStore,
	companions CompanionStore,
	availability AvailabilityStore,
	payments PaymentStore,
	wallets WalletStore,
	provider payment.Provider,
	notifier Notifier,
	chat ChatCloser,
	publisher *events.Publisher,
) *BookingService {
	return &BookingService{
		cfg:          cfg,
		bookings:     bookings,
		companions:   companions,
		availability: availability,
		payments:     payments,
		wallets:      wallets,
		provider:     provider,
		notifier:     notifier,
		chat:         chat,
		publisher:    publisher,
	}
}

// Slots returns the bookable one-hour start times for a companion on a date.
func (s *BookingService) Slots(companionID uint, date string) ([]string, error) {
	rows, err := s.availability.GetWeek(companionID)
	if err != nil {
		return nil, err
	}
	existing, err := s.bookings.ListBlockingByCompanionAndDate(companionID, date)
	if err != nil {
		return nil, err
	}
	windows := make([]schedule.BookingWindow, 0, len(existing))
	for i := range existing {
		windows = append(windows, existing[i].Window())
	}
	return schedule.AvailableSlots(date, models.ToWeekly(rows), windows), nil
}

// Create validates and persists a new pending booking for the client. The
// conflict check here is advisory; the store's insert repeats it under row
// locks so concurrent overlapping requests cannot both land.
func (s *BookingService) Create(clientID, companionID uint, req schedule.BookingRequest, now time.Time) (*models.Booking, error) {
	if result := schedule.ValidateBookingRequest(req, now); !result.Valid {
		return nil, &domain.ValidationError{Reasons: result.Errors}
	}

	profile, err := s.companions.GetByID(companionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanionNotFound
		}
		return nil, err
	}
	if profile.UserID == clientID {
		return nil, ErrSelfBooking
	}
	if !profile.IsActive || !profile.AcceptNewBookings {
		return nil, ErrCompanionUnavailable
	}

	rows, err := s.availability.GetWeek(companionID)
	if err != nil {
		return nil, err
	}
	day, err := dayFor(req.Date, models.ToWeekly(rows))
	if err != nil {
		return nil, &domain.ValidationError{Reasons: []string{"date must be in YYYY-MM-DD format"}}
	}
	if !schedule.WithinWindow(day, req.Time, req.DurationHours) {
		return nil, ErrOutsideAvailability
	}

	existing, err := s.bookings.ListBlockingByCompanionAndDate(companionID, req.Date)
	if err != nil {
		return nil, err
	}
	windows := make([]schedule.BookingWindow, 0, len(existing))
	for i := range existing {
		windows = append(windows, existing[i].Window())
	}
	if schedule.HasConflict(req, windows) {
		return nil, domain.ErrBookingConflict
	}

	expiresAt := now.Add(s.cfg.Booking.PendingTTL)
	b := &models.Booking{
		ClientID:      clientID,
		CompanionID:   companionID,
		Date:          req.Date,
		Time:          req.Time,
		DurationHours: req.DurationHours,
		AmountCents:   profile.HourlyRateCents * int64(req.DurationHours),
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		ExpiresAt:     &expiresAt,
	}
	if err := s.bookings.CreateIfNoConflict(b); err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(profile.UserID, "BOOKING_REQUESTED", "New booking request",
		"You have a new booking request for "+b.Date+" at "+b.Time,
		map[string]interface{}{"booking_id": b.ID})
	_ = s.publisher.PublishJSON(context.Background(), events.BookingCreated, bookingEvent(b))

	return b, nil
}

func dayFor(date string, week schedule.WeeklyAvailability) (schedule.DayAvailability, error) {
	d, err := time.Parse(schedule.DateLayout, date)
	if err != nil {
		return schedule.DayAvailability{}, err
	}
	return week[d.Weekday()], nil
}

// Accept moves a pending booking to accepted; companion only.
func (s *BookingService) Accept(bookingID, actorUserID uint, now time.Time) (*models.Booking, error) {
	return s.transition(bookingID, actorUserID, domain.ActionAccept, now)
}

// Reject declines a pending booking; companion only. A paid booking is
// refunded.
func (s *BookingService) Reject(bookingID, actorUserID uint, now time.Time) (*models.Booking, error) {
	return s.transition(bookingID, actorUserID, domain.ActionReject, now)
}

// Cancel cancels an accepted booking; either participant. A paid booking is
// refunded.
func (s *BookingService) Cancel(bookingID, actorUserID uint, now time.Time) (*models.Booking, error) {
	return s.transition(bookingID, actorUserID, domain.ActionCancel, now)
}

// Complete marks an accepted booking done; companion only. The paid amount is
// split: the platform keeps its fee, the remainder is credited to the
// companion's wallet.
func (s *BookingService) Complete(bookingID, actorUserID uint, now time.Time) (*models.Booking, error) {
	return s.transition(bookingID, actorUserID, domain.ActionComplete, now)
}

func (s *BookingService) transition(bookingID, actorUserID uint, action string, now time.Time) (*models.Booking, error) {
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	actor, err := s.resolveActor(b, actorUserID)
	if err != nil {
		return nil, err
	}
	t, err := domain.Apply(b.Status, action, actor)
	if err != nil {
		return nil, err
	}
	if err := s.applyTransition(b, t, now); err != nil {
		return nil, err
	}
	s.notifyTransition(b, actorUserID)
	_ = s.publisher.PublishJSON(context.Background(), routingKey(b.Status), bookingEvent(b))
	return b, nil
}

// resolveActor maps a user to their role in the booking. The caller has
// already authenticated the user; this is the identity check the state
// machine leaves to us.
func (s *BookingService) resolveActor(b *models.Booking, userID uint) (string, error) {
	if b.ClientID == userID {
		return domain.ActorClient, nil
	}
	if b.Companion.UserID == userID {
		return domain.ActorCompanion, nil
	}
	return "", domain.ErrNotParticipant
}

// applyTransition persists the new status and carries out the payment action
// the machine decided. Status and payment outcome are written together so a
// failed refund never leaves a half-applied transition.
func (s *BookingService) applyTransition(b *models.Booking, t domain.Transition, now time.Time) error {
	switch t.PaymentAction {
	case domain.PaymentActionRefund:
		if b.PaymentStatus == domain.PaymentStatusPaid {
			if err := s.refund(b); err != nil {
				return err
			}
			b.PaymentStatus = domain.PaymentStatusRefunded
		}
	case domain.PaymentActionSplit:
		if b.PaymentStatus == domain.PaymentStatusPaid {
			if err := s.split(b); err != nil {
				return err
			}
			b.PaymentStatus = domain.PaymentStatusSplit
		}
	}

	b.Status = t.Status
	b.ExpiresAt = nil
	switch t.Status {
	case domain.BookingStatusAccepted:
		b.AcceptedAt = &now
	case domain.BookingStatusCompleted:
		b.CompletedAt = &now
	}
	if err := s.bookings.Update(b); err != nil {
		return err
	}
	// Chat is open only while accepted; leaving that state kills the room and
	// disconnects anyone still in it.
	if s.chat != nil && !domain.ChatAvailable(b.Status) {
		s.chat.RemoveRoom(b.ID)
	}
	return nil
}

func (s *BookingService) refund(b *models.Booking) error {
	if b.PaymentID == nil {
		return nil
	}
	p, err := s.payments.GetByID(*b.PaymentID)
	if err != nil {
		return err
	}
	if err := s.provider.Refund(context.Background(), p.ProviderRef, p.AmountCents); err != nil {
		return err
	}
	now := time.Now()
	p.Status = domain.GatewayStatusRefunded
	p.RefundedAt = &now
	return s.payments.Update(p)
}

func (s *BookingService) split(b *models.Booking) error {
	fee := b.AmountCents * s.cfg.Payment.PlatformFeePercent / 100
	net := b.AmountCents - fee
	return s.wallets.Credit(b.Companion.UserID, net, "EARNING", b.ID)
}

// ExpirePending applies the expire transition to every pending booking past
// its deadline. Called periodically by the scheduler; now is injected so the
// sweep is deterministic under test.
func (s *BookingService) ExpirePending(now time.Time) ([]models.Booking, error) {
	stale, err := s.bookings.ListPendingExpired(now)
	if err != nil {
		return nil, err
	}
	expired := make([]models.Booking, 0, len(stale))
	for i := range stale {
		b := &stale[i]
		t, err := domain.Apply(b.Status, domain.ActionExpire, domain.ActorSystem)
		if err != nil {
			// raced with a companion accepting; skip
			continue
		}
		if err := s.applyTransition(b, t, now); err != nil {
			log.Printf("[booking] expire %d failed: %v", b.ID, err)
			continue
		}
		_ = s.notifier.Notify(b.ClientID, "BOOKING_EXPIRED", "Booking expired",
			"Your booking request was not accepted in time", map[string]interface{}{"booking_id": b.ID})
		_ = s.publisher.PublishJSON(context.Background(), events.BookingExpired, bookingEvent(b))
		expired = append(expired, *b)
	}
	return expired, nil
}

func (s *BookingService) notifyTransition(b *models.Booking, actorUserID uint) {
	var userID uint
	var notifType, title, body string
	switch b.Status {
	case domain.BookingStatusAccepted:
		userID = b.ClientID
		notifType, title = "BOOKING_ACCEPTED", "Booking accepted"
		body = "Your booking for " + b.Date + " at " + b.Time + " was accepted. Chat is now open."
	case domain.BookingStatusRejected:
		userID = b.ClientID
		notifType, title = "BOOKING_REJECTED", "Booking declined"
		body = "Your booking for " + b.Date + " at " + b.Time + " was declined."
	case domain.BookingStatusCancelled:
		// tell the other party
		userID = b.ClientID
		if actorUserID == b.ClientID {
			userID = b.Companion.UserID
		}
		notifType, title = "BOOKING_CANCELLED", "Booking cancelled"
		body = "The booking for " + b.Date + " at " + b.Time + " was cancelled."
	case domain.BookingStatusCompleted:
		userID = b.ClientID
		notifType, title = "BOOKING_COMPLETED", "Booking completed"
		body = "Your booking is complete. You can now leave a review."
	default:
		return
	}
	_ = s.notifier.Notify(userID, notifType, title, body, map[string]interface{}{"booking_id": b.ID})
}

func routingKey(status string) string {
	switch status {
	case domain.BookingStatusAccepted:
		return events.BookingAccepted
	case domain.BookingStatusRejected:
		return events.BookingRejected
	case domain.BookingStatusCancelled:
		return events.BookingCancelled
	case domain.BookingStatusCompleted:
		return events.BookingCompleted
	case domain.BookingStatusExpired:
		return events.BookingExpired
	}
	return events.BookingCreated
}

func bookingEvent(b *models.Booking) map[string]any {
	return map[string]any{
		"booking_id":   b.ID,
		"client_id":    b.ClientID,
		"companion_id": b.CompanionID,
		"date":         b.Date,
		"time":         b.Time,
		"duration":     b.DurationHours,
		"status":       b.Status,
	}
}
