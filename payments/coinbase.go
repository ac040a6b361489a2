package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	coinbaseBaseURL    = "https://api.commerce.coinbase.com"
	coinbaseAPIVersion = "2018-03-22"
)

type CoinbaseClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewCoinbaseClient(apiKey string) *CoinbaseClient {
	return &CoinbaseClient{
		apiKey:  apiKey,
		baseURL: coinbaseBaseURL,
		http:    &http.Client{Timeout: providerTimeout},
	}
}

// NewCoinbaseClientWithBaseURL exists for tests pointed at a fake server.
func NewCoinbaseClientWithBaseURL(apiKey, baseURL string) *CoinbaseClient {
	c := NewCoinbaseClient(apiKey)
	c.baseURL = baseURL
	return c
}

// ChargeRequest describes a fixed-price USD charge. Metadata must carry
// enough context (order id, user id) for the settlement webhook to map
// the confirmation back to the originating order without a session.
type ChargeRequest struct {
	Name        string
	Description string
	Amount      float64
	Metadata    map[string]string
	RedirectURL string
	CancelURL   string
}

type Charge struct {
	Code      string
	HostedURL string
}

func (c *CoinbaseClient) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	payload := map[string]interface{}{
		"name":         req.Name,
		"description":  req.Description,
		"pricing_type": "fixed_price",
		"local_price": map[string]string{
			"amount":   fmt.Sprintf("%.2f", req.Amount),
			"currency": "USD",
		},
		"metadata":     req.Metadata,
		"redirect_url": req.RedirectURL,
		"cancel_url":   req.CancelURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-CC-Api-Key", c.apiKey)
	httpReq.Header.Set("X-CC-Version", coinbaseAPIVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coinbase charge request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coinbase charge read: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("coinbase charge status %d: %s", resp.StatusCode, respBody)
	}

	var decoded struct {
		Data struct {
			Code      string `json:"code"`
			HostedURL string `json:"hosted_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("coinbase charge decode: %w", err)
	}
	if decoded.Data.HostedURL == "" {
		return nil, fmt.Errorf("coinbase returned empty hosted_url: %s", respBody)
	}

	return &Charge{Code: decoded.Data.Code, HostedURL: decoded.Data.HostedURL}, nil
}
