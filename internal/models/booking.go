package models

import (
	"time"

	"velora/internal/schedule"

	"gorm.io/gorm"
)

// Booking is a client's reservation of a companion's time. Bookings are never
// physically deleted; terminal statuses are retained for audit and review
// eligibility.
type Booking struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ClientID      uint           `gorm:"not null;index" json:"client_id"`
	CompanionID   uint           `gorm:"not null;index" json:"companion_id"`
	Date          string         `gorm:"size:10;not null;index" json:"date"` // "YYYY-MM-DD"
	Time          string         `gorm:"size:5;not null" json:"time"`        // "HH:MM", 24h
	DurationHours int            `gorm:"not null;default:1" json:"duration_hours"`
	AmountCents   int64          `gorm:"not null;default:0" json:"amount_cents"`
	Status        string         `gorm:"size:20;not null;index" json:"status"`         // PENDING, ACCEPTED, COMPLETED, REJECTED, EXPIRED, CANCELLED
	PaymentStatus string         `gorm:"size:20;not null;index" json:"payment_status"` // UNPAID, PAID, REFUNDED, SPLIT
	PaymentID     *uint          `gorm:"index" json:"payment_id"`
	ExpiresAt     *time.Time     `gorm:"index" json:"expires_at"` // pending deadline; nil once no longer pending
	AcceptedAt    *time.Time     `json:"accepted_at"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Client    User             `gorm:"foreignKey:ClientID" json:"-"`
	Companion CompanionProfile `gorm:"foreignKey:CompanionID" json:"-"`
	Payment   *Payment         `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Window returns the slice of the booking the slot engine needs.
func (b *Booking) Window() schedule.BookingWindow {
	return schedule.BookingWindow{
		Date:          b.Date,
		Time:          b.Time,
		DurationHours: b.DurationHours,
		Status:        b.Status,
	}
}

// EndTime is the booking's wall-clock end, wrapping past midnight.
func (b *Booking) EndTime() string {
	return schedule.ComputeEndTime(b.Time, b.DurationHours)
}

type ChatMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"booking_id"`
	SenderID  uint           `gorm:"not null;index" json:"sender_id"`
	Content   string         `gorm:"type:text" json:"content"`
	MediaURL  string         `gorm:"size:512" json:"media_url"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
	Sender  User    `gorm:"foreignKey:SenderID" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
