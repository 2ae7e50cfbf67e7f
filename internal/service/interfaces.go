package service

import (
	"context"

	"github.com/bluebrandly-api/internal/domain"
	"github.com/bluebrandly-api/internal/stripe"
)

// SocialClient fetches profile data from the social network
type SocialClient interface {
	GetProfile(ctx context.Context, actor string) (*domain.ProfileSnapshot, error)
	GetAuthorFeed(ctx context.Context, actor string, limit int) ([]domain.Post, error)
}

// WaitlistStore persists waitlist entries
type WaitlistStore interface {
	UpsertWaitlistEntry(ctx context.Context, email, status string) error
}

// Mailer delivers transactional email
type Mailer interface {
	SendWelcome(ctx context.Context, to string) error
}

// PaymentProvider manages hosted checkout sessions
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (*stripe.CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

// Registrar records interest signals on the waitlist
type Registrar interface {
	Register(ctx context.Context, email, status string) error
}

// ImageFetcher retrieves a remote image
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (contentType string, body []byte, err error)
}

// ImageCache stores fetched images; implementations are best-effort
type ImageCache interface {
	Get(ctx context.Context, url string) (contentType string, body []byte, ok bool)
	Set(ctx context.Context, url, contentType string, body []byte) error
}
