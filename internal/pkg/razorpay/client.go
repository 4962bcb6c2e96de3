package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// ErrOrderRejected is returned when the gateway refuses to mint an order
var ErrOrderRejected = errors.New("razorpay rejected order creation")

// Config carries the per-integration credentials. KeySecret signs checkout
// confirmations; WebhookSecret signs webhook bodies and is a separate value.
type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
	BaseURL       string
}

// OrderRequest is the payload for the gateway's order-create endpoint.
// Amount is in the smallest currency unit (paise).
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's representation of a minted order
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// apiError mirrors the gateway's error envelope
type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client is a minimal HTTP client for the Razorpay orders API
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a gateway client from config, filling in defaults
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Currency == "" {
		config.Currency = "INR"
	}
	return &Client{
		config: config,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// KeyID returns the public key identifier the browser checkout SDK needs
func (c *Client) KeyID() string {
	return c.config.KeyID
}

// Currency returns the configured settlement currency
func (c *Client) Currency() string {
	return c.config.Currency
}

// CreateOrder mints a new order at the gateway
func (c *Client) CreateOrder(ctx context.Context, orderReq OrderRequest) (*Order, error) {
	if orderReq.Currency == "" {
		orderReq.Currency = c.config.Currency
	}

	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order creation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var gatewayErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&gatewayErr); decodeErr == nil && gatewayErr.Error.Description != "" {
			return nil, fmt.Errorf("%w: %s", ErrOrderRejected, gatewayErr.Error.Description)
		}
		return nil, fmt.Errorf("%w: status %d", ErrOrderRejected, resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: response carried no order id", ErrOrderRejected)
	}

	return &order, nil
}
