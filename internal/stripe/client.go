// Package stripe is a thin client for the Stripe Checkout Sessions API.
// Requests are form-encoded per the Stripe wire format.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/bluebrandly-api/internal/config"
)

// CheckoutSession is the subset of the provider's session object the
// service reads back.
type CheckoutSession struct {
	ID              string `json:"id"`
	URL             string `json:"url,omitempty"`
	PaymentStatus   string `json:"payment_status"`
	Status          string `json:"status,omitempty"`
	AmountTotal     int64  `json:"amount_total,omitempty"`
	Currency        string `json:"currency,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerDetails struct {
		Email string `json:"email,omitempty"`
	} `json:"customer_details,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Email returns the best available customer email for the session
func (s *CheckoutSession) Email() string {
	if s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	if s.CustomerEmail != "" {
		return s.CustomerEmail
	}
	return s.Metadata["email"]
}

// Paid reports whether the provider considers the session settled
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// CheckoutParams configures a single-line-item hosted checkout session
type CheckoutParams struct {
	Email       string
	Amount      int64
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
}

// Client calls the Stripe REST API with a secret key
type Client struct {
	apiBase    string
	secretKey  string
	currency   string
	httpClient *resty.Client
}

// NewClient creates a Stripe client from configuration
func NewClient(cfg *config.StripeConfig) *Client {
	return &Client{
		apiBase:    cfg.APIBase,
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
		httpClient: resty.New(),
	}
}

// CreateCheckoutSession opens a hosted checkout session in payment mode
// with a single card line item.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := map[string]string{
		"mode":                    "payment",
		"payment_method_types[0]": "card",
		"line_items[0][quantity]": "1",
		"success_url":             params.SuccessURL,
		"cancel_url":              params.CancelURL,
		"customer_email":          params.Email,
		"metadata[email]":         params.Email,
	}
	form["line_items[0][price_data][currency]"] = c.currency
	form["line_items[0][price_data][unit_amount]"] = strconv.FormatInt(params.Amount, 10)
	form["line_items[0][price_data][product_data][name]"] = params.ProductName
	form["line_items[0][price_data][product_data][description]"] = params.Description

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		SetFormData(form).
		Post(c.apiBase + "/v1/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("creating checkout session: unexpected status code: %d", resp.StatusCode())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &session, nil
}

// RetrieveCheckoutSession fetches the current state of a session. The
// provider is the source of truth for payment status.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		Get(c.apiBase + "/v1/checkout/sessions/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("retrieving checkout session: unexpected status code: %d", resp.StatusCode())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &session, nil
}
