package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 500
)

// EngagementMetrics is a free-form mapping of counters such as likes, comments or shares.
type EngagementMetrics map[string]any

// Post is one piece of content stored for a platform. (PlatformID, PlatformPostID) is unique.
type Post struct {
	ID                uuid.UUID         `json:"id"`
	PlatformID        uuid.UUID         `json:"platform_id"`
	PlatformPostID    string            `json:"platform_post_id"`
	Content           *string           `json:"content,omitempty"`
	MediaURLs         []string          `json:"media_urls"`
	EngagementMetrics EngagementMetrics `json:"engagement_metrics"`
	PostedAt          *time.Time        `json:"posted_at,omitempty"`
	FetchedAt         time.Time         `json:"fetched_at"`
}

// EnsureCollections replaces nil media and metrics with empty values so the
// JSON encoding never carries null for them.
func (p *Post) EnsureCollections() {
	if p.MediaURLs == nil {
		p.MediaURLs = []string{}
	}
	if p.EngagementMetrics == nil {
		p.EngagementMetrics = EngagementMetrics{}
	}
}

// PlatformRef is the platform metadata joined onto feed posts.
type PlatformRef struct {
	PlatformName     string    `json:"platform_name"`
	PlatformUsername *string   `json:"platform_username,omitempty"`
	UserID           uuid.UUID `json:"user_id"`
}

// FeedPost is a stored post joined with its platform, as returned by the feed reader.
type FeedPost struct {
	Post
	Platform PlatformRef `json:"social_platforms"`
}

// FeedFilter narrows the feed. Zero values mean "no filter".
type FeedFilter struct {
	UserID        *uuid.UUID
	WalletAddress string
	PlatformName  string
	Limit         int
}

// EffectiveLimit applies the default and clamps to MaxFeedLimit.
func (f FeedFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultFeedLimit
	case f.Limit > MaxFeedLimit:
		return MaxFeedLimit
	default:
		return f.Limit
	}
}

// ScrapedPost is what a platform adapter returns before it is tied to a stored platform.
type ScrapedPost struct {
	Source            string            `json:"source"`
	ExternalID        string            `json:"external_id"`
	Author            string            `json:"author"`
	Content           string            `json:"content"`
	URL               string            `json:"url"`
	Timestamp         time.Time         `json:"timestamp"`
	EngagementMetrics EngagementMetrics `json:"engagement_metrics,omitempty"`
	MediaURLs         []string          `json:"media_urls,omitempty"`
}

// ToPost maps a scraped post onto the stored schema.
func (s ScrapedPost) ToPost(platformID uuid.UUID, fetchedAt time.Time) Post {
	p := Post{
		PlatformID:        platformID,
		PlatformPostID:    s.ExternalID,
		MediaURLs:         s.MediaURLs,
		EngagementMetrics: s.EngagementMetrics,
		FetchedAt:         fetchedAt.UTC(),
	}
	if s.Content != "" {
		content := s.Content
		p.Content = &content
	}
	if !s.Timestamp.IsZero() {
		postedAt := s.Timestamp.UTC()
		p.PostedAt = &postedAt
	}
	p.EnsureCollections()
	return p
}

// ConflictMode selects what an upsert does with a row whose key already exists.
type ConflictMode int

const (
	// ConflictIgnore keeps the stored row untouched.
	ConflictIgnore ConflictMode = iota
	// ConflictUpdate refreshes content, media, metrics and timestamps.
	ConflictUpdate
)
