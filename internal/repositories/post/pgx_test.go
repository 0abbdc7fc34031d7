package post

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpsertIgnore(t *testing.T) {
	posts := []domain.Post{
		{PlatformID: uuid.New(), PlatformPostID: "1", FetchedAt: time.Now()},
		{PlatformID: uuid.New(), PlatformPostID: "2", FetchedAt: time.Now()},
	}

	query, args, err := buildUpsert(posts, domain.ConflictIgnore)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO social_posts")
	assert.Contains(t, query, "($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)")
	assert.Contains(t, query, "DO NOTHING")
	assert.Len(t, args, 14)
	assert.Equal(t, []byte("[]"), args[3])
	assert.Equal(t, []byte("{}"), args[4])
}

func TestBuildUpsertUpdate(t *testing.T) {
	posts := []domain.Post{{
		PlatformID:        uuid.New(),
		PlatformPostID:    "1",
		MediaURLs:         []string{"https://cdn.example.com/a.png"},
		EngagementMetrics: domain.EngagementMetrics{"likes": 2},
	}}

	query, args, err := buildUpsert(posts, domain.ConflictUpdate)
	require.NoError(t, err)

	assert.Contains(t, query, "DO UPDATE SET content = EXCLUDED.content")
	assert.Contains(t, query, "fetched_at = EXCLUDED.fetched_at")
	assert.JSONEq(t, `["https://cdn.example.com/a.png"]`, string(args[3].([]byte)))
	assert.JSONEq(t, `{"likes":2}`, string(args[4].([]byte)))
}

func TestBuildFeed(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		query, args, err := buildFeed(domain.FeedFilter{})
		require.NoError(t, err)

		assert.Contains(t, query, "JOIN social_platforms sp ON sp.id = p.platform_id")
		assert.NotContains(t, query, "web3_users")
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY p.posted_at DESC NULLS LAST, p.fetched_at DESC")
		assert.Contains(t, query, "LIMIT 50")
		assert.Empty(t, args)
	})

	t.Run("filters", func(t *testing.T) {
		userID := uuid.New()
		query, args, err := buildFeed(domain.FeedFilter{
			UserID:        &userID,
			WalletAddress: "0xabc",
			PlatformName:  domain.PlatformGhost,
			Limit:         5,
		})
		require.NoError(t, err)

		assert.Contains(t, query, "JOIN web3_users u ON u.id = sp.user_id")
		assert.Contains(t, query, "sp.user_id = $1")
		assert.Contains(t, query, "u.wallet_address = $2")
		assert.Contains(t, query, "sp.platform_name = $3")
		assert.Contains(t, query, "LIMIT 5")
		assert.Equal(t, []any{userID.String(), "0xabc", domain.PlatformGhost}, args)
	})
}

func TestLastByKey(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	first, last := "first", "last"

	out := lastByKey([]domain.Post{
		{PlatformID: a, PlatformPostID: "1", Content: &first},
		{PlatformID: b, PlatformPostID: "1"},
		{PlatformID: a, PlatformPostID: "2"},
		{PlatformID: a, PlatformPostID: "1", Content: &last},
	})

	require.Len(t, out, 3)
	assert.Equal(t, a, out[0].PlatformID)
	assert.Equal(t, "last", *out[0].Content)
	assert.Equal(t, b, out[1].PlatformID)
	assert.Equal(t, "2", out[2].PlatformPostID)
}
