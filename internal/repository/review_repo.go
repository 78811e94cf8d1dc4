package repository

import (
	"velora/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(rv *models.Review) error {
	return r.db.Create(rv).Error
}

func (r *ReviewRepository) ExistsByBookingAndReviewer(bookingID, reviewerID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Review{}).
		Where("booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).Count(&c).Error
	return c > 0, err
}

func (r *ReviewRepository) ListByReviewee(revieweeID uint, limit, offset int) ([]models.Review, error) {
	var list []models.Review
	err := r.db.Where("reviewee_id = ?", revieweeID).Preload("Reviewer").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// AverageRating returns the mean rating received by a user, 0 when unrated.
func (r *ReviewRepository) AverageRating(revieweeID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Select("AVG(rating)").Where("reviewee_id = ?", revieweeID).Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
