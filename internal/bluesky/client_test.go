package bluesky

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebrandly-api/internal/config"
)

type fakePDS struct {
	logins    int
	refreshes int
	profiles  int
	feeds     int
}

func (f *fakePDS) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		f.logins++
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "svc.bsky.social", creds["identifier"])
		assert.Equal(t, "app-password", creds["password"])
		json.NewEncoder(w).Encode(map[string]string{
			"accessJwt":  "access-1",
			"refreshJwt": "refresh-1",
			"handle":     "svc.bsky.social",
			"did":        "did:plc:svc",
		})
	})

	mux.HandleFunc("/xrpc/com.atproto.server.refreshSession", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes++
		assert.Equal(t, "Bearer refresh-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"accessJwt":  "access-2",
			"refreshJwt": "refresh-2",
		})
	})

	mux.HandleFunc("/xrpc/app.bsky.actor.getProfile", func(w http.ResponseWriter, r *http.Request) {
		f.profiles++
		assert.Equal(t, "alice.bsky.social", r.URL.Query().Get("actor"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"handle":         "alice.bsky.social",
			"displayName":    "Alice",
			"description":    "brand builder #AI",
			"avatar":         "https://cdn.example/avatar.png",
			"banner":         "https://cdn.example/banner.png",
			"followersCount": 1500,
			"followsCount":   300,
			"postsCount":     4200,
			"createdAt":      "2024-06-01T00:00:00Z",
		})
	})

	mux.HandleFunc("/xrpc/app.bsky.feed.getAuthorFeed", func(w http.ResponseWriter, r *http.Request) {
		f.feeds++
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"feed": []map[string]interface{}{
				{"post": map[string]int{"likeCount": 10, "repostCount": 2, "replyCount": 1}},
				{"post": map[string]int{}}, // counters absent default to zero
			},
		})
	})

	return mux
}

func newTestClient(serviceURL string, ttl time.Duration) *Client {
	return NewClient(&config.BlueskyConfig{
		Service:    serviceURL,
		Identifier: "svc.bsky.social",
		Password:   "app-password",
		SessionTTL: ttl,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetProfile(t *testing.T) {
	pds := &fakePDS{}
	ts := httptest.NewServer(pds.handler(t))
	defer ts.Close()

	client := newTestClient(ts.URL, time.Hour)

	profile, err := client.GetProfile(context.Background(), "alice.bsky.social")
	require.NoError(t, err)

	assert.Equal(t, "alice.bsky.social", profile.Handle)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, 1500, profile.FollowerCount)
	assert.Equal(t, 300, profile.FollowingCount)
	assert.Equal(t, 4200, profile.PostCount)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), profile.CreatedAt)
}

func TestGetAuthorFeed(t *testing.T) {
	pds := &fakePDS{}
	ts := httptest.NewServer(pds.handler(t))
	defer ts.Close()

	client := newTestClient(ts.URL, time.Hour)

	posts, err := client.GetAuthorFeed(context.Background(), "alice.bsky.social", 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, 10, posts[0].LikeCount)
	assert.Equal(t, 2, posts[0].RepostCount)
	assert.Equal(t, 1, posts[0].ReplyCount)
	assert.Zero(t, posts[1].LikeCount)
}

func TestSessionIsCachedAcrossCalls(t *testing.T) {
	pds := &fakePDS{}
	ts := httptest.NewServer(pds.handler(t))
	defer ts.Close()

	client := newTestClient(ts.URL, time.Hour)
	ctx := context.Background()

	_, err := client.GetProfile(ctx, "alice.bsky.social")
	require.NoError(t, err)
	_, err = client.GetAuthorFeed(ctx, "alice.bsky.social", 100)
	require.NoError(t, err)
	_, err = client.GetProfile(ctx, "alice.bsky.social")
	require.NoError(t, err)

	assert.Equal(t, 1, pds.logins, "session should be created once and reused")
	assert.Equal(t, 0, pds.refreshes)
}

func TestExpiredSessionIsRefreshed(t *testing.T) {
	pds := &fakePDS{}
	ts := httptest.NewServer(pds.handler(t))
	defer ts.Close()

	client := newTestClient(ts.URL, time.Nanosecond)
	ctx := context.Background()

	_, err := client.GetProfile(ctx, "alice.bsky.social")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = client.GetProfile(ctx, "alice.bsky.social")
	require.NoError(t, err)

	assert.Equal(t, 1, pds.logins)
	assert.Equal(t, 1, pds.refreshes, "expired session should refresh, not re-login")
}

func TestUpstreamErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"AuthenticationRequired"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, time.Hour)

	_, err := client.GetProfile(context.Background(), "alice.bsky.social")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
