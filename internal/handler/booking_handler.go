package handler

import (
	"errors"
	"net/http"
	"time"

	"velora/internal/domain"
	"velora/internal/middleware"
	"velora/internal/models"
	"velora/internal/repository"
	"velora/internal/schedule"
	"velora/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	svc           *service.BookingService
	bookingRepo   *repository.BookingRepository
	companionRepo *repository.CompanionRepository
}

func NewBookingHandler(svc *service.BookingService, bookingRepo *repository.BookingRepository, companionRepo *repository.CompanionRepository) *BookingHandler {
	return &BookingHandler{svc: svc, bookingRepo: bookingRepo, companionRepo: companionRepo}
}

// Slots returns the bookable one-hour start times for a companion on a date.
// GET /companions/:id/slots?date=YYYY-MM-DD
func (h *BookingHandler) Slots(c *gin.Context) {
	companionID := paramID(c, "id")
	date := c.Query("date")
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param must be YYYY-MM-DD"})
		return
	}
	if _, err := h.companionRepo.GetByID(companionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "companion not found"})
		return
	}
	slots, err := h.svc.Slots(companionID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute slots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

type CreateBookingRequest struct {
	CompanionID   uint   `json:"companion_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
}

// Create places a new pending booking.
func (h *BookingHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Create(userID, req.CompanionID, schedule.BookingRequest{
		Date:          req.Date,
		Time:          req.Time,
		DurationHours: req.DurationHours,
	}, time.Now())
	if err != nil {
		h.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Get returns a booking; only its participants may see it.
func (h *BookingHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	b, err := h.bookingRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if b.ClientID != userID && b.Companion.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not part of this booking"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMine returns the caller's bookings: as client for clients, as companion
// for companions.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role, _ := c.Get("role")
	limit, offset := pagination(c)

	if roleStr, _ := role.(string); roleStr == domain.RoleCompanion {
		profile, err := h.companionRepo.GetByUserID(userID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "companion profile required"})
			return
		}
		list, err := h.bookingRepo.ListByCompanionID(profile.ID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": list})
		return
	}
	list, err := h.bookingRepo.ListByClientID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (h *BookingHandler) Accept(c *gin.Context) {
	h.transition(c, h.svc.Accept)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	h.transition(c, h.svc.Reject)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(bookingID, actorUserID uint, now time.Time) (*models.Booking, error)) {
	userID := middleware.GetUserID(c)
	b, err := fn(paramID(c, "id"), userID, time.Now())
	if err != nil {
		h.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// writeBookingError maps service and domain errors to HTTP responses.
func (h *BookingHandler) writeBookingError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "reasons": verr.Reasons})
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, service.ErrCompanionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "companion not found"})
	case errors.Is(err, domain.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "requested time conflicts with an existing booking"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "booking is not in a state that allows this action"})
	case errors.Is(err, domain.ErrActorNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot perform this action on this booking"})
	case errors.Is(err, domain.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "not part of this booking"})
	case errors.Is(err, service.ErrSelfBooking):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCompanionUnavailable), errors.Is(err, service.ErrOutsideAvailability):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking operation failed"})
	}
}
