// Package score computes profile quality scores from a social profile
// snapshot. Everything in here is pure: no I/O, no clocks except the
// explicit `now` passed into AuthorityScore.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/bluebrandly-api/internal/domain"
)

const (
	// targetPostsPerDay is the posting cadence that earns a full activity score.
	targetPostsPerDay = 3.0
	// targetEngagementRate is the per-follower engagement percentage that
	// earns a full engagement score.
	targetEngagementRate = 3.0
	// defaultWindowDays is the feed window the recent-post count covers.
	defaultWindowDays = 30
)

var tagPattern = regexp.MustCompile(`#\w+`)

// ActivityScore scores posting cadence: recent posts per day over the
// window, against a target of 3 posts/day. Saturates at 100.
func ActivityScore(recentPosts, windowDays int) int {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	postsPerDay := float64(recentPosts) / float64(windowDays)
	raw := math.Min(postsPerDay/targetPostsPerDay*100, 100)
	return int(math.Round(raw))
}

// EngagementRate returns the average per-post engagement as a percentage
// of the follower count, rounded to one decimal place. Zero followers or
// an empty feed yields 0.0 by policy rather than an error.
func EngagementRate(posts []domain.Post, followerCount int) float64 {
	if followerCount <= 0 || len(posts) == 0 {
		return 0.0
	}
	total := 0
	for _, p := range posts {
		total += p.LikeCount + p.RepostCount + p.ReplyCount
	}
	avgPerPost := float64(total) / float64(len(posts))
	rate := avgPerPost / float64(followerCount) * 100
	return math.Round(rate*10) / 10
}

// EngagementScore scores an engagement-rate percentage against a 3% target
func EngagementScore(ratePercent float64) int {
	raw := math.Min(ratePercent/targetEngagementRate*100, 100)
	return int(math.Round(raw))
}

// AuthorityScore composes an additive score out of 100: up to 30 points
// for profile completeness (10 each for avatar, display name and
// description), up to 40 points scaled from the follower count with a cap
// at 1000 followers, and up to 30 points scaled from account age with a
// cap at 30 days. An unknown creation time contributes no age points.
func AuthorityScore(profile domain.ProfileSnapshot, now time.Time) int {
	score := 0.0

	if profile.AvatarURL != "" {
		score += 10
	}
	if profile.DisplayName != "" {
		score += 10
	}
	if profile.Description != "" {
		score += 10
	}

	score += math.Min(float64(profile.FollowerCount)/1000*40, 40)

	if !profile.CreatedAt.IsZero() {
		ageDays := now.Sub(profile.CreatedAt).Hours() / 24
		score += math.Min(ageDays/30*30, 30)
	}

	return int(math.Round(score))
}

// TotalScore is the rounded mean of the three sub-scores
func TotalScore(s domain.SubScores) int {
	return int(math.Round(float64(s.Activity+s.Engagement+s.Authority) / 3))
}

// BadgeFor maps a total score onto its badge tier
func BadgeFor(totalScore int) domain.BadgeLevel {
	switch {
	case totalScore >= 90:
		return domain.BadgeGalaxy
	case totalScore >= 70:
		return domain.BadgeSupernova
	case totalScore >= 50:
		return domain.BadgeNebula
	default:
		return domain.BadgeStardust
	}
}

// FormatCount renders a count with the usual k/M suffixes to one decimal
// place; values below 1000 pass through unchanged.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return strconv.Itoa(n)
	}
}

// ExtractTags pulls up to four hashtag tokens from a profile description,
// in source order, with the leading # stripped.
func ExtractTags(description string) []string {
	matches := tagPattern.FindAllString(description, -1)
	tags := make([]string, 0, 4)
	for _, m := range matches {
		tags = append(tags, m[1:])
		if len(tags) == 4 {
			break
		}
	}
	return tags
}

// Recommendations gates each advisory string on its own condition; they
// are independent, not mutually exclusive.
func Recommendations(profile domain.ProfileSnapshot, s domain.SubScores) []string {
	recs := []string{}

	if profile.AvatarURL == "" || profile.DisplayName == "" || profile.Description == "" {
		recs = append(recs, "Complete your profile by adding missing elements (avatar, display name, or description)")
	}
	if s.Activity < 70 {
		recs = append(recs, "Increase your posting frequency to boost visibility")
	}
	if s.Engagement < 70 {
		recs = append(recs, "Engage more with other users through likes, reposts, and replies")
	}
	if s.Authority < 70 {
		recs = append(recs, "Build your network by connecting with more users in your interest areas")
	}

	return recs
}

// Evaluate runs the full pipeline over a snapshot and produces the
// display-ready result.
func Evaluate(profile domain.ProfileSnapshot, now time.Time) domain.ScoreResult {
	rate := EngagementRate(profile.RecentPosts, profile.FollowerCount)

	scores := domain.SubScores{
		Activity:   ActivityScore(len(profile.RecentPosts), defaultWindowDays),
		Engagement: EngagementScore(rate),
		Authority:  AuthorityScore(profile, now),
	}
	total := TotalScore(scores)
	badge := BadgeFor(total)

	displayName := profile.DisplayName
	if displayName == "" {
		displayName = profile.Handle
	}
	avatar := profile.AvatarURL
	if avatar == "" {
		avatar = "/default-avatar.png"
	}

	return domain.ScoreResult{
		Profile: domain.ProfileCard{
			Handle:         profile.Handle,
			DisplayName:    displayName,
			Description:    profile.Description,
			Avatar:         avatar,
			Banner:         profile.BannerURL,
			FollowersCount: FormatCount(profile.FollowerCount),
			FollowsCount:   FormatCount(profile.FollowingCount),
			PostsCount:     FormatCount(profile.PostCount),
			EngagementRate: fmt.Sprintf("%.1f%%", rate),
			Tags:           ExtractTags(profile.Description),
		},
		Scores:          scores,
		TotalScore:      total,
		Badge:           badge,
		Title:           badge.Title(),
		Recommendations: Recommendations(profile, scores),
	}
}
