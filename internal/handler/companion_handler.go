package handler

import (
	"net/http"
	"strconv"
	"strings"

	"velora/internal/middleware"
	"velora/internal/models"
	"velora/internal/repository"
	"velora/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CompanionHandler struct {
	repo       *repository.CompanionRepository
	reviewRepo *repository.ReviewRepository
	cloud      cloudinary.Client
}

func NewCompanionHandler(repo *repository.CompanionRepository, reviewRepo *repository.ReviewRepository, cloud cloudinary.Client) *CompanionHandler {
	return &CompanionHandler{repo: repo, reviewRepo: reviewRepo, cloud: cloud}
}

// List returns active companion profiles, optionally filtered by city.
func (h *CompanionHandler) List(c *gin.Context) {
	city := c.Query("city")
	limit, offset := pagination(c)
	profiles, err := h.repo.List(city, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list companions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"companions": profiles})
}

// GetProfile returns a companion profile by ID with rating summary.
func (h *CompanionHandler) GetProfile(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	profile, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	avg, _ := h.reviewRepo.AverageRating(profile.UserID)
	c.JSON(http.StatusOK, gin.H{
		"profile":        profile,
		"average_rating": avg,
	})
}

// Reviews returns reviews left for a companion.
func (h *CompanionHandler) Reviews(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	profile, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	limit, offset := pagination(c)
	reviews, err := h.reviewRepo.ListByReviewee(profile.UserID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type UpdateCompanionRequest struct {
	DisplayName       *string `json:"display_name"`
	Bio               *string `json:"bio"`
	Languages         *string `json:"languages"`
	CityOrArea        *string `json:"city_or_area"`
	HourlyRateCents   *int64  `json:"hourly_rate_cents"`
	AcceptNewBookings *bool   `json:"accept_new_bookings"`
}

// UpdateProfile lets a companion update their own profile.
func (h *CompanionHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	profile, err := h.repo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "companion profile required"})
		return
	}
	var req UpdateCompanionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DisplayName != nil && *req.DisplayName != "" {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Languages != nil {
		profile.Languages = *req.Languages
	}
	if req.CityOrArea != nil {
		profile.CityOrArea = *req.CityOrArea
	}
	if req.HourlyRateCents != nil {
		if *req.HourlyRateCents < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate_cents must be >= 0"})
			return
		}
		profile.HourlyRateCents = *req.HourlyRateCents
	}
	if req.AcceptNewBookings != nil {
		profile.AcceptNewBookings = *req.AcceptNewBookings
	}
	if err := h.repo.Update(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadMedia uploads a gallery image or video for the companion's profile.
func (h *CompanionHandler) UploadMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)
	profile, err := h.repo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "companion profile required"})
		return
	}
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media uploads not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	mediaType := c.DefaultPostForm("media_type", "IMAGE")
	folder := "velora/companions/" + strconv.FormatUint(uint64(profile.ID), 10)
	prefix := "img"
	if mediaType == "VIDEO" {
		prefix = "vid"
	}
	publicID := prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	var url, thumbURL string
	if mediaType == "VIDEO" {
		url, thumbURL, err = h.cloud.UploadVideo(ctx, f, folder, publicID)
	} else {
		url, thumbURL, err = h.cloud.UploadImage(ctx, f, folder, publicID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	media := &models.CompanionMedia{
		CompanionID:  profile.ID,
		MediaType:    mediaType,
		URL:          url,
		ThumbnailURL: thumbURL,
	}
	if err := h.repo.AddMedia(media); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, media)
}
