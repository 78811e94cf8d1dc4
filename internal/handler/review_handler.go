package handler

import (
	"errors"
	"net/http"

	"velora/internal/domain"
	"velora/internal/middleware"
	"velora/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Submit creates a review on a completed booking. POST /bookings/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := h.svc.Submit(paramID(c, "id"), userID, req.Rating, req.Comment)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "reasons": verr.Reasons})
		case errors.Is(err, domain.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, domain.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not part of this booking"})
		case errors.Is(err, domain.ErrReviewNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "reviews open once the booking is completed"})
		case errors.Is(err, domain.ErrDuplicateReview):
			c.JSON(http.StatusConflict, gin.H{"error": "you already reviewed this booking"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit review"})
		}
		return
	}
	c.JSON(http.StatusCreated, review)
}
