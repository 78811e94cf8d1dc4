package models

import (
	"time"

	"gorm.io/gorm"
)

type CompanionProfile struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName         string         `gorm:"size:100;not null" json:"display_name"`
	Bio                 string         `gorm:"type:text" json:"bio"`
	Languages           string         `gorm:"size:255" json:"languages"`
	CityOrArea          string         `gorm:"size:100;index" json:"city_or_area"`
	HourlyRateCents     int64          `gorm:"not null;default:0" json:"hourly_rate_cents"`
	Currency            string         `gorm:"size:3;default:'NGN'" json:"currency"`
	MainProfileImageURL string         `gorm:"size:512" json:"main_profile_image_url"`
	IsActive            bool           `gorm:"default:true;index" json:"is_active"`
	AcceptNewBookings   bool           `gorm:"default:true" json:"accept_new_bookings"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	User         User                    `gorm:"foreignKey:UserID" json:"-"`
	Media        []CompanionMedia        `gorm:"foreignKey:CompanionID" json:"media,omitempty"`
	Availability []CompanionAvailability `gorm:"foreignKey:CompanionID" json:"availability,omitempty"`
}

func (CompanionProfile) TableName() string {
	return "companion_profiles"
}

type CompanionMedia struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CompanionID  uint           `gorm:"not null;index" json:"companion_id"`
	MediaType    string         `gorm:"size:20;not null" json:"media_type"` // IMAGE | VIDEO
	URL          string         `gorm:"size:512;not null" json:"url"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Companion CompanionProfile `gorm:"foreignKey:CompanionID" json:"-"`
}

func (CompanionMedia) TableName() string {
	return "companion_media"
}
