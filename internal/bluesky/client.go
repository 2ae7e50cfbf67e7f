// Package bluesky is a minimal client for the Bluesky XRPC API covering
// the calls the score endpoint needs: session management, actor profiles
// and author feeds.
package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bluebrandly-api/internal/config"
	"github.com/bluebrandly-api/internal/domain"
)

const maxFeedLimit = 100

// Client talks to a Bluesky PDS with service-wide credentials. Sessions
// are cached until their TTL elapses; an expired session is refreshed via
// refreshSession and re-created from scratch if the refresh is rejected.
type Client struct {
	service    string
	identifier string
	password   string
	sessionTTL time.Duration
	httpClient *resty.Client
	logger     *slog.Logger

	mu        sync.Mutex
	session   *session
	expiresAt time.Time
}

type session struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Handle     string `json:"handle"`
	Did        string `json:"did"`
}

// NewClient creates a Bluesky client from configuration
func NewClient(cfg *config.BlueskyConfig, logger *slog.Logger) *Client {
	return &Client{
		service:    cfg.Service,
		identifier: cfg.Identifier,
		password:   cfg.Password,
		sessionTTL: cfg.SessionTTL,
		httpClient: resty.New(),
		logger:     logger,
	}
}

// accessToken returns a valid access JWT, creating or refreshing the
// cached session as needed.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil && time.Now().Before(c.expiresAt) {
		return c.session.AccessJwt, nil
	}

	if c.session != nil && c.session.RefreshJwt != "" {
		sess, err := c.refreshSession(ctx, c.session.RefreshJwt)
		if err == nil {
			c.setSession(sess)
			return sess.AccessJwt, nil
		}
		c.logger.Warn("session refresh failed, re-authenticating", "error", err)
	}

	sess, err := c.createSession(ctx)
	if err != nil {
		return "", err
	}
	c.setSession(sess)
	return sess.AccessJwt, nil
}

func (c *Client) setSession(sess *session) {
	c.session = sess
	c.expiresAt = time.Now().Add(c.sessionTTL)
}

func (c *Client) createSession(ctx context.Context) (*session, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"identifier": c.identifier,
			"password":   c.password,
		}).
		Post(c.service + "/xrpc/com.atproto.server.createSession")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("createSession: unexpected status code: %d", resp.StatusCode())
	}

	var sess session
	if err := json.Unmarshal(resp.Body(), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &sess, nil
}

func (c *Client) refreshSession(ctx context.Context, refreshJwt string) (*session, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(refreshJwt).
		Post(c.service + "/xrpc/com.atproto.server.refreshSession")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("refreshSession: unexpected status code: %d", resp.StatusCode())
	}

	var sess session
	if err := json.Unmarshal(resp.Body(), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &sess, nil
}

// GetProfile fetches an actor's profile view
func (c *Client) GetProfile(ctx context.Context, actor string) (*domain.ProfileSnapshot, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("actor", actor).
		Get(c.service + "/xrpc/app.bsky.actor.getProfile")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("getProfile: unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Handle         string    `json:"handle"`
		DisplayName    string    `json:"displayName"`
		Description    string    `json:"description"`
		Avatar         string    `json:"avatar"`
		Banner         string    `json:"banner"`
		FollowersCount int       `json:"followersCount"`
		FollowsCount   int       `json:"followsCount"`
		PostsCount     int       `json:"postsCount"`
		CreatedAt      time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.ProfileSnapshot{
		Handle:         result.Handle,
		DisplayName:    result.DisplayName,
		Description:    result.Description,
		AvatarURL:      result.Avatar,
		BannerURL:      result.Banner,
		FollowerCount:  result.FollowersCount,
		FollowingCount: result.FollowsCount,
		PostCount:      result.PostsCount,
		CreatedAt:      result.CreatedAt,
	}, nil
}

// GetAuthorFeed fetches up to limit recent posts from an actor's feed.
// The API caps the page size at 100.
func (c *Client) GetAuthorFeed(ctx context.Context, actor string, limit int) ([]domain.Post, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"actor": actor,
			"limit": strconv.Itoa(limit),
		}).
		Get(c.service + "/xrpc/app.bsky.feed.getAuthorFeed")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("getAuthorFeed: unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Feed []struct {
			Post struct {
				LikeCount   int `json:"likeCount"`
				RepostCount int `json:"repostCount"`
				ReplyCount  int `json:"replyCount"`
			} `json:"post"`
		} `json:"feed"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	posts := make([]domain.Post, 0, len(result.Feed))
	for _, item := range result.Feed {
		posts = append(posts, domain.Post{
			LikeCount:   item.Post.LikeCount,
			RepostCount: item.Post.RepostCount,
			ReplyCount:  item.Post.ReplyCount,
		})
	}
	return posts, nil
}
