package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluebrandly-api/internal/domain"
	"github.com/bluebrandly-api/internal/score"
)

// ProfileService produces the full score payload for a social handle
type ProfileService struct {
	client    SocialClient
	feedLimit int
	logger    *slog.Logger
}

// NewProfileService creates a new profile scoring service
func NewProfileService(client SocialClient, feedLimit int, logger *slog.Logger) *ProfileService {
	if feedLimit <= 0 || feedLimit > 100 {
		feedLimit = 100
	}
	return &ProfileService{
		client:    client,
		feedLimit: feedLimit,
		logger:    logger,
	}
}

// Score fetches the profile and its recent feed, then evaluates every
// sub-score. Any upstream failure aborts the whole operation; there are no
// partial results.
func (s *ProfileService) Score(ctx context.Context, handle string) (*domain.ScoreResult, error) {
	profile, err := s.client.GetProfile(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	posts, err := s.client.GetAuthorFeed(ctx, handle, s.feedLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching author feed: %w", err)
	}

	profile.RecentPosts = posts
	if profile.Handle == "" {
		profile.Handle = handle
	}

	result := score.Evaluate(*profile, time.Now())
	return &result, nil
}
