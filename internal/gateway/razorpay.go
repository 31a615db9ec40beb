// Package gateway talks to the Razorpay orders API.
package gateway

import (
	"context" // Request deadlines
	"errors"  // Error construction
	"fmt"     // Error formatting
	"net/http"
	"strings"
	"time" // Timeouts

	"github.com/go-resty/resty/v2" // HTTP client with retries
)

// Config configures the gateway client
type Config struct {
	BaseURL   string        // API base URL
	KeyID     string        // Basic auth user
	KeySecret string        // Basic auth password
	Timeout   time.Duration // Per-attempt timeout
	Retries   int           // Extra attempts on transport errors, 429 and 5xx
}

// OrderRequest asks the gateway for a payment order
type OrderRequest struct {
	Amount   int64  `json:"amount"`   // Minor currency units
	Currency string `json:"currency"` // ISO currency code
	Receipt  string `json:"receipt"`  // Merchant receipt reference
}

// Order is the gateway's payment order, the client presents it back at checkout
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client is a Razorpay orders client
type Client struct {
	http *resty.Client
}

// New builds a client with the configured timeout and retry policy
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{http: c}
}

// CreateOrder opens a payment order of req.Amount minor units
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	var out Order
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("failed to reach gateway: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Description != "" {
			return nil, fmt.Errorf("gateway error (%d): %s", resp.StatusCode(), apiErr.Error.Description)
		}
		return nil, fmt.Errorf("gateway error (%d): %s", resp.StatusCode(), resp.String())
	}
	if out.ID == "" {
		return nil, errors.New("gateway returned an order without id")
	}
	return &out, nil
}
