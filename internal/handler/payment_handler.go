package handler

import (
	"net/http"
	"time"

	"velora/config"
	"velora/internal/domain"
	"velora/internal/middleware"
	"velora/internal/models"
	"velora/internal/repository"
	"velora/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	cfg         *config.Config
	paymentRepo *repository.PaymentRepository
	bookingRepo *repository.BookingRepository
	userRepo    *repository.UserRepository
	provider    payment.Provider
}

func NewPaymentHandler(cfg *config.Config, paymentRepo *repository.PaymentRepository, bookingRepo *repository.BookingRepository, userRepo *repository.UserRepository, provider payment.Provider) *PaymentHandler {
	return &PaymentHandler{cfg: cfg, paymentRepo: paymentRepo, bookingRepo: bookingRepo, userRepo: userRepo, provider: provider}
}

type InitiatePaymentRequest struct {
	BookingID uint `json:"booking_id" binding:"required"`
}

// Initiate starts a checkout for a booking. Only the booking's client may pay,
// and only while the booking is pending or accepted and still unpaid.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if b.ClientID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the booking's client can pay"})
		return
	}
	if domain.IsTerminal(b.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "booking is closed"})
		return
	}
	if b.PaymentStatus != domain.PaymentStatusUnpaid {
		c.JSON(http.StatusConflict, gin.H{"error": "booking is already paid"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment failed"})
		return
	}

	idemKey := uuid.New().String()
	resp, err := h.provider.InitiatePayment(c.Request.Context(), payment.PaymentRequest{
		UserID:         userID,
		AmountCents:    b.AmountCents,
		Currency:       "NGN",
		IdempotencyKey: idemKey,
		Description:    "Booking " + b.Date + " " + b.Time,
		CustomerEmail:  u.Email,
		CallbackURL:    h.cfg.Payment.CallbackBaseURL + "/payments/callback",
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	}
	p := &models.Payment{
		UserID:         userID,
		BookingID:      &b.ID,
		AmountCents:    b.AmountCents,
		Currency:       "NGN",
		Provider:       h.cfg.Payment.Provider,
		ProviderRef:    resp.Reference,
		Status:         domain.GatewayStatusPending,
		IdempotencyKey: idemKey,
	}
	if !resp.ExpiresAt.IsZero() {
		p.ExpiresAt = &resp.ExpiresAt
	}
	if err := h.paymentRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"payment_id":   p.ID,
		"reference":    p.ProviderRef,
		"checkout_url": resp.CheckoutURL,
		"amount_cents": p.AmountCents,
	})
}

// Verify polls the provider for a payment's status and settles it if paid.
// Fallback for clients when the webhook is delayed.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ref := c.Param("reference")
	p, err := h.paymentRepo.GetByProviderRef(ref)
	if err != nil || p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if p.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your payment"})
		return
	}
	if p.Status == domain.GatewayStatusCompleted {
		c.JSON(http.StatusOK, gin.H{"status": p.Status})
		return
	}
	ok, err := h.provider.VerifyPayment(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "verification failed"})
		return
	}
	if ok {
		if err := settlePayment(h.paymentRepo, h.bookingRepo, p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": p.Status})
}

// settlePayment marks a payment completed and flips its booking to PAID.
func settlePayment(paymentRepo *repository.PaymentRepository, bookingRepo *repository.BookingRepository, p *models.Payment) error {
	now := time.Now()
	p.Status = domain.GatewayStatusCompleted
	p.CompletedAt = &now
	if err := paymentRepo.Update(p); err != nil {
		return err
	}
	if p.BookingID == nil {
		return nil
	}
	b, err := bookingRepo.GetByID(*p.BookingID)
	if err != nil {
		return err
	}
	if b.PaymentStatus != domain.PaymentStatusUnpaid {
		return nil
	}
	b.PaymentStatus = domain.PaymentStatusPaid
	b.PaymentID = &p.ID
	return bookingRepo.Update(b)
}
