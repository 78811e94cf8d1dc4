package handler

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"velora/config"
	"velora/internal/domain"
	"velora/internal/repository"
	"velora/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookHandler struct {
	cfg         *config.Config
	paymentRepo *repository.PaymentRepository
	bookingRepo *repository.BookingRepository
	notifSvc    *service.NotificationService
}

func NewPaymentWebhookHandler(cfg *config.Config, paymentRepo *repository.PaymentRepository, bookingRepo *repository.BookingRepository, notifSvc *service.NotificationService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, paymentRepo: paymentRepo, bookingRepo: bookingRepo, notifSvc: notifSvc}
}

// Handle processes Paystack webhook events. Paystack signs the raw body with
// HMAC-SHA512 using the account secret key (x-paystack-signature header).
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.Payment.PaystackSecretKey != "" {
		sig := c.GetHeader("x-paystack-signature")
		if !h.verifySignature(body, sig) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.Data.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
		return
	}
	p, err := h.paymentRepo.GetByProviderRef(payload.Data.Reference)
	if err != nil || p == nil {
		// Unknown reference; ack so the provider stops retrying.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if p.Status == domain.GatewayStatusCompleted {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if payload.Event == "charge.success" || payload.Data.Status == "success" {
		if err := settlePayment(h.paymentRepo, h.bookingRepo, p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		_ = h.notifSvc.NotifyPaymentConfirmed(p.UserID, p.AmountCents, p.ProviderRef)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(h.cfg.Payment.PaystackSecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
