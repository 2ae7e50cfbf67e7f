package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bluebrandly-api/internal/config"
	"github.com/bluebrandly-api/internal/domain"
	"github.com/bluebrandly-api/internal/stripe"
)

const depositProductName = "Waitlist Deposit"

// CheckoutService bridges the payment provider and the waitlist. The
// provider is the source of truth for session state: create opens a hosted
// session, verify polls it once and finalizes on "paid".
type CheckoutService struct {
	provider  PaymentProvider
	registrar Registrar
	site      *config.SiteConfig
	logger    *slog.Logger
}

// NewCheckoutService creates a new checkout bridge
func NewCheckoutService(provider PaymentProvider, registrar Registrar, site *config.SiteConfig, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		provider:  provider,
		registrar: registrar,
		site:      site,
		logger:    logger,
	}
}

// CreateSession opens a hosted checkout session for the deposit and
// returns its identifier and redirect URL.
func (s *CheckoutService) CreateSession(ctx context.Context, req domain.CheckoutRequest) (sessionID, url string, err error) {
	baseURL := s.site.BaseURL()

	session, err := s.provider.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		Email:       req.Email,
		Amount:      req.Amount,
		ProductName: depositProductName,
		Description: req.Description,
		SuccessURL:  baseURL + "/waitlist/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   baseURL + "/?canceled=true",
	})
	if err != nil {
		return "", "", fmt.Errorf("creating checkout session: %w", err)
	}

	return session.ID, session.URL, nil
}

// VerifyAndFinalize retrieves the session and, only when the provider
// reports it paid, confirms the customer's waitlist entry. An unpaid
// session fails without touching the waitlist.
func (s *CheckoutService) VerifyAndFinalize(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	session, err := s.provider.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieving checkout session: %w", err)
	}

	if !session.Paid() {
		return nil, domain.ErrPaymentIncomplete
	}

	if err := s.registrar.Register(ctx, session.Email(), domain.WaitlistStatusConfirmed); err != nil {
		return nil, fmt.Errorf("confirming waitlist entry: %w", err)
	}

	return session, nil
}
