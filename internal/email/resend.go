// Package email sends transactional mail through the Resend API.
package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/bluebrandly-api/internal/config"
)

// Client sends mail through Resend. Each send carries a fresh
// Idempotency-Key so a duplicated request cannot double-deliver.
type Client struct {
	apiBase    string
	apiKey     string
	from       string
	siteName   string
	httpClient *resty.Client
}

// NewClient creates a Resend client from configuration
func NewClient(cfg *config.EmailConfig, site *config.SiteConfig) *Client {
	return &Client{
		apiBase:    cfg.APIBase,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		siteName:   site.Name,
		httpClient: resty.New(),
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendWelcome delivers the waitlist welcome email
func (c *Client) SendWelcome(ctx context.Context, to string) error {
	body := sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to the %s Waitlist! 🎉", c.siteName),
		HTML:    c.welcomeHTML(),
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(body).
		Post(c.apiBase + "/emails")
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("sending email: unexpected status code: %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) welcomeHTML() string {
	return fmt.Sprintf(`
		<p>Thank you for joining our exclusive waitlist. You're now first in line to experience premium brand development and marketing solutions.</p>

		<h2>What's coming your way:</h2>
		<ul>
			<li>🎁 <strong>Early bird pricing</strong> when we launch</li>
			<li>⚡️ Priority access to our services</li>
			<li>💎 Personalized brand consultation</li>
			<li>🎯 Dedicated account manager</li>
			<li>🔔 First to know about new service offerings</li>
		</ul>

		<p>We're working hard to create exceptional branding and marketing solutions tailored for your business.
		As a waitlist member, you'll get exclusive early bird pricing when we launch!</p>

		<p>Stay tuned for updates!</p>

		<p style="color: #666; font-size: 0.9em;">Best regards,<br>The %s Team</p>
	`, c.siteName)
}
