package models

import (
	"time"

	"velora/internal/schedule"

	"gorm.io/gorm"
)

// CompanionAvailability is one weekday of a companion's recurring schedule.
// Each companion has at most one row per weekday; the seven rows together form
// the weekly availability the slot engine consumes.
type CompanionAvailability struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CompanionID uint           `gorm:"not null;index:idx_companion_day,unique" json:"companion_id"`
	DayOfWeek   int            `gorm:"not null;index:idx_companion_day,unique" json:"day_of_week"` // 0 = Sunday (time.Weekday)
	Enabled     bool           `gorm:"default:false" json:"enabled"`
	StartTime   string         `gorm:"size:5" json:"start_time"` // "HH:MM", 24h
	EndTime     string         `gorm:"size:5" json:"end_time"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Companion CompanionProfile `gorm:"foreignKey:CompanionID" json:"-"`
}

func (CompanionAvailability) TableName() string {
	return "companion_availability"
}

// ToWeekly assembles availability rows into the map the slot engine uses.
func ToWeekly(rows []CompanionAvailability) schedule.WeeklyAvailability {
	week := make(schedule.WeeklyAvailability, len(rows))
	for _, r := range rows {
		week[time.Weekday(r.DayOfWeek)] = schedule.DayAvailability{
			Enabled:   r.Enabled,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		}
	}
	return week
}
