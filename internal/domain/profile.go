package domain

import "time"

// ProfileSnapshot is the raw view of a social account fetched per request.
// It is never persisted; a fresh snapshot is built for every score call.
type ProfileSnapshot struct {
	Handle         string    `json:"handle"`
	DisplayName    string    `json:"display_name,omitempty"`
	Description    string    `json:"description,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	BannerURL      string    `json:"banner_url,omitempty"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	PostCount      int       `json:"post_count"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	RecentPosts    []Post    `json:"recent_posts,omitempty"`
}

// Post carries the engagement counters of a single post. Counters default
// to zero when the upstream feed omits them.
type Post struct {
	LikeCount   int `json:"like_count"`
	RepostCount int `json:"repost_count"`
	ReplyCount  int `json:"reply_count"`
}

// ProfileCard is the display-ready profile block returned by the score
// endpoint: counts are pre-formatted strings, not raw integers.
type ProfileCard struct {
	Handle         string   `json:"handle"`
	DisplayName    string   `json:"displayName"`
	Description    string   `json:"description"`
	Avatar         string   `json:"avatar"`
	Banner         string   `json:"banner,omitempty"`
	FollowersCount string   `json:"followersCount"`
	FollowsCount   string   `json:"followsCount"`
	PostsCount     string   `json:"postsCount"`
	EngagementRate string   `json:"engagementRate"`
	Tags           []string `json:"tags"`
}
