package handler

import (
	"net/http"
	"time"

	"velora/internal/middleware"
	"velora/internal/models"
	"velora/internal/repository"
	"velora/internal/schedule"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	repo          *repository.AvailabilityRepository
	companionRepo *repository.CompanionRepository
}

func NewAvailabilityHandler(repo *repository.AvailabilityRepository, companionRepo *repository.CompanionRepository) *AvailabilityHandler {
	return &AvailabilityHandler{repo: repo, companionRepo: companionRepo}
}

// GetWeek returns a companion's weekly availability (public).
func (h *AvailabilityHandler) GetWeek(c *gin.Context) {
	companionID := paramID(c, "id")
	if _, err := h.companionRepo.GetByID(companionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "companion not found"})
		return
	}
	rows, err := h.repo.GetWeek(companionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": rows})
}

type dayInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type PutWeekRequest struct {
	Days []dayInput `json:"days" binding:"required"`
}

// PutWeek replaces the authenticated companion's weekly availability.
// Enabled days must carry a valid HH:MM window with start before end.
func (h *AvailabilityHandler) PutWeek(c *gin.Context) {
	userID := middleware.GetUserID(c)
	profile, err := h.companionRepo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "companion profile required"})
		return
	}
	var req PutWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	seen := make(map[int]bool, 7)
	rows := make([]models.CompanionAvailability, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.DayOfWeek] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate day_of_week"})
			return
		}
		seen[d.DayOfWeek] = true
		if d.Enabled {
			day := schedule.DayAvailability{Enabled: true, StartTime: d.StartTime, EndTime: d.EndTime}
			if !day.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "enabled days need start_time before end_time in HH:MM"})
				return
			}
		}
		rows = append(rows, models.CompanionAvailability{
			CompanionID: profile.ID,
			DayOfWeek:   d.DayOfWeek,
			Enabled:     d.Enabled,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
		})
	}
	if err := h.repo.ReplaceWeek(profile.ID, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save availability"})
		return
	}
	saved, _ := h.repo.GetWeek(profile.ID)
	c.JSON(http.StatusOK, gin.H{"availability": saved, "updated_at": time.Now()})
}
