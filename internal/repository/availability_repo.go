package repository

import (
	"velora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) GetWeek(companionID uint) ([]models.CompanionAvailability, error) {
	var rows []models.CompanionAvailability
	err := r.db.Where("companion_id = ?", companionID).Order("day_of_week ASC").Find(&rows).Error
	return rows, err
}

// ReplaceWeek upserts the companion's seven weekday rows in one transaction.
func (r *AvailabilityRepository) ReplaceWeek(companionID uint, rows []models.CompanionAvailability) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			rows[i].CompanionID = companionID
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "companion_id"}, {Name: "day_of_week"}},
				DoUpdates: clause.AssignmentColumns([]string{"enabled", "start_time", "end_time", "updated_at"}),
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
