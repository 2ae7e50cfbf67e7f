package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebrandly-api/internal/config"
	"github.com/bluebrandly-api/internal/domain"
	"github.com/bluebrandly-api/internal/stripe"
)

type stubProvider struct {
	created  []stripe.CheckoutParams
	session  *stripe.CheckoutSession
	retrieve *stripe.CheckoutSession
	err      error
}

func (p *stubProvider) CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (*stripe.CheckoutSession, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.created = append(p.created, params)
	return p.session, nil
}

func (p *stubProvider) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.retrieve, nil
}

type stubRegistrar struct {
	registered []upsert
	err        error
}

func (r *stubRegistrar) Register(ctx context.Context, email, status string) error {
	if r.err != nil {
		return r.err
	}
	r.registered = append(r.registered, upsert{email: email, status: status})
	return nil
}

func testSite() *config.SiteConfig {
	return &config.SiteConfig{Name: "BlueBrandly", PublicBaseURL: "https://bluebrandly.com"}
}

func paidSession(email string) *stripe.CheckoutSession {
	s := &stripe.CheckoutSession{ID: "cs_1", PaymentStatus: "paid"}
	s.CustomerDetails.Email = email
	return s
}

func TestCreateSession(t *testing.T) {
	provider := &stubProvider{session: &stripe.CheckoutSession{
		ID:  "cs_1",
		URL: "https://checkout.stripe.com/pay/cs_1",
	}}
	svc := NewCheckoutService(provider, &stubRegistrar{}, testSite(), discardLogger())

	id, url, err := svc.CreateSession(context.Background(), domain.CheckoutRequest{
		Email:       "buyer@example.com",
		Amount:      4900,
		Description: "Founding member deposit",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", id)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_1", url)

	require.Len(t, provider.created, 1)
	params := provider.created[0]
	assert.Equal(t, "buyer@example.com", params.Email)
	assert.Equal(t, int64(4900), params.Amount)
	assert.Equal(t, "Waitlist Deposit", params.ProductName)
	assert.Equal(t, "https://bluebrandly.com/waitlist/success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://bluebrandly.com/?canceled=true", params.CancelURL)
}

func TestCreateSessionBaseURLFallbacks(t *testing.T) {
	provider := &stubProvider{session: &stripe.CheckoutSession{ID: "cs_1"}}

	site := &config.SiteConfig{DeployURL: "preview.example.app"}
	svc := NewCheckoutService(provider, &stubRegistrar{}, site, discardLogger())
	_, _, err := svc.CreateSession(context.Background(), domain.CheckoutRequest{Email: "a@b.c", Amount: 100})
	require.NoError(t, err)
	assert.Contains(t, provider.created[0].SuccessURL, "https://preview.example.app/")

	svc = NewCheckoutService(provider, &stubRegistrar{}, &config.SiteConfig{}, discardLogger())
	_, _, err = svc.CreateSession(context.Background(), domain.CheckoutRequest{Email: "a@b.c", Amount: 100})
	require.NoError(t, err)
	assert.Contains(t, provider.created[1].SuccessURL, "http://localhost:3000/")
}

func TestVerifyAndFinalizePaid(t *testing.T) {
	provider := &stubProvider{retrieve: paidSession("buyer@example.com")}
	registrar := &stubRegistrar{}
	svc := NewCheckoutService(provider, registrar, testSite(), discardLogger())

	session, err := svc.VerifyAndFinalize(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)

	require.Len(t, registrar.registered, 1)
	assert.Equal(t, "buyer@example.com", registrar.registered[0].email)
	assert.Equal(t, domain.WaitlistStatusConfirmed, registrar.registered[0].status)
}

func TestVerifyAndFinalizeUnpaid(t *testing.T) {
	provider := &stubProvider{retrieve: &stripe.CheckoutSession{ID: "cs_1", PaymentStatus: "unpaid"}}
	registrar := &stubRegistrar{}
	svc := NewCheckoutService(provider, registrar, testSite(), discardLogger())

	_, err := svc.VerifyAndFinalize(context.Background(), "cs_1")
	require.ErrorIs(t, err, domain.ErrPaymentIncomplete)

	// An unpaid session must never touch the waitlist.
	assert.Empty(t, registrar.registered)
}

func TestVerifyAndFinalizeRegistrarFailure(t *testing.T) {
	provider := &stubProvider{retrieve: paidSession("buyer@example.com")}
	registrar := &stubRegistrar{err: errors.New("db down")}
	svc := NewCheckoutService(provider, registrar, testSite(), discardLogger())

	_, err := svc.VerifyAndFinalize(context.Background(), "cs_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPaymentIncomplete)
}

func TestVerifyAndFinalizeProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("stripe unreachable")}
	registrar := &stubRegistrar{}
	svc := NewCheckoutService(provider, registrar, testSite(), discardLogger())

	_, err := svc.VerifyAndFinalize(context.Background(), "cs_1")
	require.Error(t, err)
	assert.Empty(t, registrar.registered)
}
