package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaystackProvider charges cards via the Paystack REST API. Amounts are passed
// through in the smallest currency unit, which matches Paystack's contract.
type PaystackProvider struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewPaystackProvider(baseURL, secretKey string) *PaystackProvider {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaystackProvider{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PaystackProvider) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("paystack %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type paystackInitReq struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // smallest currency unit
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type paystackInitResp struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (p *PaystackProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	payload := paystackInitReq{
		Email:       req.CustomerEmail,
		Amount:      req.AmountCents,
		Currency:    req.Currency,
		Reference:   req.IdempotencyKey,
		CallbackURL: req.CallbackURL,
	}
	var out paystackInitResp
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", payload, &out); err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack initialize rejected")
	}
	return &PaymentResponse{
		Reference:   out.Data.Reference,
		Status:      "PENDING",
		CheckoutURL: out.Data.AuthorizationURL,
	}, nil
}

type paystackVerifyResp struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"` // "success" when paid
	} `json:"data"`
}

func (p *PaystackProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	var out paystackVerifyResp
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &out); err != nil {
		return false, fmt.Errorf("paystack verify: %w", err)
	}
	return out.Status && out.Data.Status == "success", nil
}

type paystackRefundReq struct {
	Transaction string `json:"transaction"`
	Amount      int64  `json:"amount,omitempty"`
}

func (p *PaystackProvider) Refund(ctx context.Context, reference string, amountCents int64) error {
	payload := paystackRefundReq{Transaction: reference, Amount: amountCents}
	if err := p.do(ctx, http.MethodPost, "/refund", payload, nil); err != nil {
		return fmt.Errorf("paystack refund: %w", err)
	}
	return nil
}
