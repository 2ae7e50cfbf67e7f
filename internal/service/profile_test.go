package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebrandly-api/internal/domain"
)

type stubSocial struct {
	profile    *domain.ProfileSnapshot
	posts      []domain.Post
	profileErr error
	feedErr    error
	feedLimit  int
}

func (s *stubSocial) GetProfile(ctx context.Context, actor string) (*domain.ProfileSnapshot, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	p := *s.profile
	return &p, nil
}

func (s *stubSocial) GetAuthorFeed(ctx context.Context, actor string, limit int) ([]domain.Post, error) {
	s.feedLimit = limit
	if s.feedErr != nil {
		return nil, s.feedErr
	}
	return s.posts, nil
}

func TestScore(t *testing.T) {
	social := &stubSocial{
		profile: &domain.ProfileSnapshot{
			Handle:        "alice.bsky.social",
			DisplayName:   "Alice",
			Description:   "brand builder #AI",
			AvatarURL:     "https://cdn.example/a.png",
			FollowerCount: 1000,
			CreatedAt:     time.Now().AddDate(-1, 0, 0),
		},
		posts: []domain.Post{
			{LikeCount: 30}, {LikeCount: 30}, {LikeCount: 30},
		},
	}
	svc := NewProfileService(social, 100, discardLogger())

	result, err := svc.Score(context.Background(), "alice.bsky.social")
	require.NoError(t, err)

	assert.Equal(t, 100, social.feedLimit)
	assert.Equal(t, "alice.bsky.social", result.Profile.Handle)
	assert.Equal(t, "Alice", result.Profile.DisplayName)
	assert.Equal(t, []string{"AI"}, result.Profile.Tags)

	// 3 posts over the 30-day window, avg 30 engagements / 1000 followers = 3%.
	assert.Equal(t, 3, result.Scores.Activity)
	assert.Equal(t, "3.0%", result.Profile.EngagementRate)
	assert.Equal(t, 100, result.Scores.Engagement)
	assert.Equal(t, 100, result.Scores.Authority)

	assert.Equal(t, 68, result.TotalScore)
	assert.Equal(t, domain.BadgeNebula, result.Badge)
	assert.Equal(t, "Cosmic Explorer", result.Title)
}

func TestScoreHandleFallback(t *testing.T) {
	social := &stubSocial{profile: &domain.ProfileSnapshot{}}
	svc := NewProfileService(social, 100, discardLogger())

	result, err := svc.Score(context.Background(), "bob.bsky.social")
	require.NoError(t, err)
	assert.Equal(t, "bob.bsky.social", result.Profile.Handle)
}

func TestScoreFailsFast(t *testing.T) {
	t.Run("profile fetch fails", func(t *testing.T) {
		social := &stubSocial{profileErr: errors.New("upstream down")}
		svc := NewProfileService(social, 100, discardLogger())

		_, err := svc.Score(context.Background(), "alice.bsky.social")
		require.Error(t, err)
	})

	t.Run("feed fetch fails", func(t *testing.T) {
		social := &stubSocial{
			profile: &domain.ProfileSnapshot{Handle: "alice.bsky.social"},
			feedErr: errors.New("upstream down"),
		}
		svc := NewProfileService(social, 100, discardLogger())

		// No partial result: a feed failure aborts the whole score.
		_, err := svc.Score(context.Background(), "alice.bsky.social")
		require.Error(t, err)
	})
}

func TestFeedLimitClamped(t *testing.T) {
	social := &stubSocial{profile: &domain.ProfileSnapshot{}}

	svc := NewProfileService(social, 500, discardLogger())
	_, err := svc.Score(context.Background(), "alice.bsky.social")
	require.NoError(t, err)
	assert.Equal(t, 100, social.feedLimit)
}
