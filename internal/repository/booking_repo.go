package repository

import (
	"time"

	"velora/internal/domain"
	"velora/internal/models"
	"velora/internal/schedule"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// blockingStatuses are the statuses that still occupy a time slot. CONFIRMED
// is the legacy spelling of ACCEPTED and must keep blocking.
var blockingStatuses = []string{domain.BookingStatusPending, domain.BookingStatusAccepted, "CONFIRMED"}

// CreateIfNoConflict inserts the booking inside a transaction that locks the
// companion's same-day blocking bookings first, then re-runs the conflict
// check with the booking's real duration. Two concurrent requests for an
// overlapping window therefore cannot both succeed: the row locks serialize
// them and the loser sees the winner's insert. A pure HasConflict call before
// this is advisory only.
func (r *BookingRepository) CreateIfNoConflict(b *models.Booking) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Booking
		err := tx.Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("companion_id = ? AND date = ? AND status IN ?", b.CompanionID, b.Date, blockingStatuses).
			Find(&existing).Error
		if err != nil {
			return err
		}
		windows := make([]schedule.BookingWindow, 0, len(existing))
		for i := range existing {
			windows = append(windows, existing[i].Window())
		}
		req := schedule.BookingRequest{Date: b.Date, Time: b.Time, DurationHours: b.DurationHours}
		if schedule.HasConflict(req, windows) {
			return domain.ErrBookingConflict
		}
		return tx.Create(b).Error
	})
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Preload("Companion").Preload("Payment").First(&b, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Update(b *models.Booking) error {
	return r.db.Save(b).Error
}

// ListBlockingByCompanionAndDate returns the bookings that occupy slots on the
// given date, for feeding the slot engine.
func (r *BookingRepository) ListBlockingByCompanionAndDate(companionID uint, date string) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("companion_id = ? AND date = ? AND status IN ?", companionID, date, blockingStatuses).
		Order("time ASC").Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByClientID(clientID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("client_id = ?", clientID).Preload("Companion").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByCompanionID(companionID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("companion_id = ?", companionID).Preload("Client").Preload("Payment").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListPendingExpired returns pending bookings whose deadline has passed, for
// the expiry sweeper.
func (r *BookingRepository) ListPendingExpired(now time.Time) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.BookingStatusPending, now).
		Preload("Companion").Preload("Payment").Find(&list).Error
	return list, err
}

// ChatMessage

func (r *BookingRepository) CreateMessage(m *models.ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *BookingRepository) ListMessages(bookingID uint, limit, offset int) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at ASC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
