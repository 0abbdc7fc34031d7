package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWallet(t *testing.T) {
	got, err := NormalizeWallet("  0xAbCDEF0123456789abcdef0123456789ABCDEF01 ")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", got)

	for _, bad := range []string{"", "0x123", "abcdef0123456789abcdef0123456789abcdef01", "0xzzcdef0123456789abcdef0123456789abcdef01"} {
		_, err := NormalizeWallet(bad)
		assert.Error(t, err, bad)
	}
}

func TestNormalizePlatformName(t *testing.T) {
	assert.Equal(t, PlatformTwitter, NormalizePlatformName(" X "))
	assert.Equal(t, PlatformTwitter, NormalizePlatformName("Twitter"))
	assert.Equal(t, PlatformGhost, NormalizePlatformName("GHOST"))
	assert.Equal(t, "mastodon", NormalizePlatformName("Mastodon"))
}

func TestFeedFilterEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultFeedLimit, FeedFilter{}.EffectiveLimit())
	assert.Equal(t, DefaultFeedLimit, FeedFilter{Limit: -3}.EffectiveLimit())
	assert.Equal(t, 10, FeedFilter{Limit: 10}.EffectiveLimit())
	assert.Equal(t, MaxFeedLimit, FeedFilter{Limit: 10_000}.EffectiveLimit())
}

func TestScrapedPostToPost(t *testing.T) {
	platformID := uuid.New()
	fetchedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	postedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	p := ScrapedPost{
		Source:            PlatformTwitter,
		ExternalID:        "123",
		Content:           "gm",
		Timestamp:         postedAt,
		EngagementMetrics: EngagementMetrics{"likes": 3},
	}.ToPost(platformID, fetchedAt)

	assert.Equal(t, platformID, p.PlatformID)
	assert.Equal(t, "123", p.PlatformPostID)
	require.NotNil(t, p.Content)
	assert.Equal(t, "gm", *p.Content)
	require.NotNil(t, p.PostedAt)
	assert.True(t, p.PostedAt.Equal(postedAt))
	assert.Equal(t, time.UTC, p.PostedAt.Location())
	assert.Equal(t, fetchedAt, p.FetchedAt)
	assert.Equal(t, []string{}, p.MediaURLs)
}

func TestScrapedPostToPostWithoutOptionalFields(t *testing.T) {
	p := ScrapedPost{ExternalID: "abc"}.ToPost(uuid.New(), time.Now())
	assert.Nil(t, p.Content)
	assert.Nil(t, p.PostedAt)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"media_urls":[]`)
	assert.Contains(t, string(raw), `"engagement_metrics":{}`)
}

func TestFeedPostJSONShape(t *testing.T) {
	username := "alice"
	fp := FeedPost{
		Post: Post{PlatformPostID: "1"},
		Platform: PlatformRef{
			PlatformName:     PlatformGhost,
			PlatformUsername: &username,
		},
	}
	fp.EnsureCollections()

	raw, err := json.Marshal(fp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1", decoded["platform_post_id"])
	platform, ok := decoded["social_platforms"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ghost", platform["platform_name"])
	assert.Equal(t, "alice", platform["platform_username"])
}
