package handler

import (
	"net/http"

	"velora/internal/domain"
	"velora/internal/middleware"
	"velora/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo      *repository.UserRepository
	companionRepo *repository.CompanionRepository
}

func NewMeHandler(userRepo *repository.UserRepository, companionRepo *repository.CompanionRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, companionRepo: companionRepo}
}

// RegisterFCMToken saves the FCM token for push notifications.
func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}
	u.FCMToken = req.Token
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetProfile returns the current user, with companion profile when applicable.
func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	resp := gin.H{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"role":          u.Role,
		"date_of_birth": u.DateOfBirth,
		"avatar_url":    u.AvatarURL,
	}
	if u.Role == domain.RoleCompanion {
		profile, err := h.companionRepo.GetByUserID(userID)
		if err != nil || profile == nil {
			resp["companion_profile"] = nil
			resp["needs_onboarding"] = true
		} else {
			resp["companion_profile"] = profile
			resp["needs_onboarding"] = profile.HourlyRateCents == 0
		}
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile updates basic account fields.
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Username  *string `json:"username"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username != nil && *req.Username != "" {
		u.Username = *req.Username
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}
