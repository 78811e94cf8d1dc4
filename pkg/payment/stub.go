package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op provider for development and tests.
type StubProvider struct{}

func (s *StubProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	ref := fmt.Sprintf("stub_%d_%d", time.Now().UnixNano(), req.UserID)
	return &PaymentResponse{
		Reference:   ref,
		Status:      "PENDING",
		CheckoutURL: "",
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}, nil
}

func (s *StubProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	return strings.HasPrefix(reference, "stub_"), nil
}

func (s *StubProvider) Refund(ctx context.Context, reference string, amountCents int64) error {
	return nil
}
