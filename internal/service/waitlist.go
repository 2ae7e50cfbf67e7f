package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bluebrandly-api/internal/domain"
)

// WaitlistService upserts interest signals and sends the welcome email.
// The row write is the durability guarantee; the email is best-effort.
type WaitlistService struct {
	store  WaitlistStore
	mailer Mailer
	logger *slog.Logger
}

// NewWaitlistService creates a new waitlist registrar
func NewWaitlistService(store WaitlistStore, mailer Mailer, logger *slog.Logger) *WaitlistService {
	return &WaitlistService{
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

// Register upserts the entry keyed by email, then attempts the welcome
// email. A failed send is logged and swallowed; the registration already
// succeeded.
func (s *WaitlistService) Register(ctx context.Context, email, status string) error {
	if status == "" {
		status = domain.WaitlistStatusPending
	}

	if err := s.store.UpsertWaitlistEntry(ctx, email, status); err != nil {
		return fmt.Errorf("registering waitlist entry: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, email); err != nil {
			s.logger.Warn("welcome email failed", "email", email, "error", err)
		}
	}

	return nil
}
