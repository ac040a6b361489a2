// Package payments holds the thin clients for the card and crypto payment
// providers. Both use bounded timeouts and surface provider failures as
// upstream errors with the response body attached for server-side logs.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	paystackBaseURL = "https://api.paystack.co"

	providerTimeout = 15 * time.Second
)

type PaystackClient struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewPaystackClient(secretKey string) *PaystackClient {
	return &PaystackClient{
		secretKey: secretKey,
		baseURL:   paystackBaseURL,
		http:      &http.Client{Timeout: providerTimeout},
	}
}

// NewPaystackClientWithBaseURL exists for tests pointed at a fake server.
func NewPaystackClientWithBaseURL(secretKey, baseURL string) *PaystackClient {
	c := NewPaystackClient(secretKey)
	c.baseURL = baseURL
	return c
}

// VerifyResult is the outcome of a transaction verification. Success false
// is a legitimate (declined) outcome, not a transport error.
type VerifyResult struct {
	Success bool
	Channel string
	Data    json.RawMessage
}

// PaymentMethod maps the provider channel onto the order paymentMethod
// values the frontend expects.
func (r *VerifyResult) PaymentMethod() string {
	if r.Channel == "apple_pay" {
		return "applepay"
	}
	return "card"
}

func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack verify read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify status %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Status bool            `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("paystack verify decode: %w", err)
	}
	var tx struct {
		Status  string `json:"status"`
		Channel string `json:"channel"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &tx); err != nil {
			return nil, fmt.Errorf("paystack verify decode data: %w", err)
		}
	}

	return &VerifyResult{
		Success: envelope.Status && tx.Status == "success",
		Channel: tx.Channel,
		Data:    envelope.Data,
	}, nil
}
