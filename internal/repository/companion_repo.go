package repository

import (
	"velora/internal/models"

	"gorm.io/gorm"
)

type CompanionRepository struct {
	db *gorm.DB
}

func NewCompanionRepository(db *gorm.DB) *CompanionRepository {
	return &CompanionRepository{db: db}
}

func (r *CompanionRepository) Create(p *models.CompanionProfile) error {
	return r.db.Create(p).Error
}

func (r *CompanionRepository) GetByID(id uint) (*models.CompanionProfile, error) {
	var p models.CompanionProfile
	err := r.db.Preload("Media", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CompanionRepository) GetByUserID(userID uint) (*models.CompanionProfile, error) {
	var p models.CompanionProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CompanionRepository) Update(p *models.CompanionProfile) error {
	return r.db.Save(p).Error
}

func (r *CompanionRepository) List(city string, limit, offset int) ([]models.CompanionProfile, error) {
	var list []models.CompanionProfile
	q := r.db.Where("is_active = ?", true)
	if city != "" {
		q = q.Where("city_or_area = ?", city)
	}
	err := q.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *CompanionRepository) AddMedia(m *models.CompanionMedia) error {
	return r.db.Create(m).Error
}
