package ghost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/orgball2608/social-feed/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(baseURL, key string, client *http.Client) *Adapter {
	cfg := &config.Config{}
	cfg.Ghost.BaseURL = baseURL
	cfg.Ghost.ContentKey = key
	cfg.Scraper.PostLimit = 10

	log := logger.NewNop()
	return New(Opts{
		Config: cfg,
		HTTP:   social.NewJSONClient(client, retry.Config{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1}, log),
		Logger: log,
	})
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ghost/api/content/posts/", r.URL.Path)
		assert.Equal(t, "content-key", r.URL.Query().Get("key"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "authors:jane", r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(`{"posts":[{
			"id": "65f0",
			"title": "Shipping notes",
			"html": "<p>First   paragraph.</p><script>track()</script><p>Second.</p>",
			"url": "https://blog.example.com/shipping-notes/",
			"feature_image": "https://blog.example.com/content/images/cover.png",
			"published_at": "2026-02-10T08:30:00.000+00:00",
			"reading_time": 3
		}]}`))
	}))
	defer srv.Close()

	author := "jane"
	posts, err := newAdapter(srv.URL+"/", "content-key", srv.Client()).
		Fetch(context.Background(), domain.Platform{PlatformUsername: &author})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "65f0", p.ExternalID)
	assert.Equal(t, "Shipping notes\n\nFirst paragraph.\nSecond.", p.Content)
	assert.Equal(t, "https://blog.example.com/shipping-notes/", p.URL)
	assert.Equal(t, []string{"https://blog.example.com/content/images/cover.png"}, p.MediaURLs)
	assert.Equal(t, 3, p.EngagementMetrics["reading_time"])
	assert.Equal(t, time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC), p.Timestamp.UTC())
}

func TestFetchWholeSiteWithoutAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(`{"posts":[{"id":"1","title":"Only title","excerpt":""}]}`))
	}))
	defer srv.Close()

	posts, err := newAdapter(srv.URL, "k", srv.Client()).Fetch(context.Background(), domain.Platform{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Only title", posts[0].Content)
	assert.Nil(t, posts[0].MediaURLs)
	assert.True(t, posts[0].Timestamp.IsZero())
}

func TestFetchNotConfigured(t *testing.T) {
	_, err := newAdapter("", "", http.DefaultClient).Fetch(context.Background(), domain.Platform{})
	assert.ErrorIs(t, err, social.ErrNotConfigured)
}
