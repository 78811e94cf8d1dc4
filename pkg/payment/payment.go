package payment

import (
	"context"
	"time"
)

type PaymentRequest struct {
	UserID         uint
	AmountCents    int64
	Currency       string
	IdempotencyKey string
	Description    string
	CustomerEmail  string
	CallbackURL    string
}

type PaymentResponse struct {
	Reference   string
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

type Provider interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (bool, error)
	// Refund returns the charged amount to the payer. amountCents of 0 means
	// a full refund.
	Refund(ctx context.Context, reference string, amountCents int64) error
}
