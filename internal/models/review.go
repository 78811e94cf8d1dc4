package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is one participant's rating of a completed booking. The unique index
// on (booking_id, reviewer_id) backs the one-review-per-participant rule.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BookingID  uint           `gorm:"not null;index:idx_booking_reviewer,unique" json:"booking_id"`
	ReviewerID uint           `gorm:"not null;index:idx_booking_reviewer,unique" json:"reviewer_id"`
	RevieweeID uint           `gorm:"not null;index" json:"reviewee_id"`
	Rating     int            `gorm:"not null" json:"rating"` // 1..5
	Comment    string         `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Booking  Booking `gorm:"foreignKey:BookingID" json:"-"`
	Reviewer User    `gorm:"foreignKey:ReviewerID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
