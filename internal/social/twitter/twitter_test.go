package twitter

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

func newAdapter(t *testing.T, srv *httptest.Server, token string) *Adapter {
	t.Helper()

	cfg := &config.Config{}
	cfg.Twitter.BaseURL = srv.URL
	cfg.Twitter.BearerToken = token
	cfg.Scraper.PostLimit = 20

	log := logger.NewNop()
	return New(Opts{
		Config: cfg,
		HTTP:   social.NewJSONClient(srv.Client(), retry.Config{MaxRetries: 0, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1}, log),
		Logger: log,
	})
}

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/by/username/alice", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":"42","username":"alice"}}`))
	})
	mux.HandleFunc("/2/users/42/tweets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("max_results"))
		assert.Contains(t, r.URL.Query().Get("tweet.fields"), "public_metrics")
		_, _ = w.Write([]byte(`{
			"data": [{
				"id": "1001",
				"text": "gm",
				"created_at": "2026-03-01T10:00:00.000Z",
				"public_metrics": {"like_count": 5, "retweet_count": 2, "reply_count": 1, "quote_count": 0},
				"attachments": {"media_keys": ["3_1", "3_missing"]}
			}],
			"includes": {"media": [{"media_key": "3_1", "url": "https://pbs.twimg.com/media/a.jpg"}]}
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	username := "@alice"
	posts, err := newAdapter(t, srv, "secret").Fetch(context.Background(), domain.Platform{PlatformUsername: &username})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "1001", p.ExternalID)
	assert.Equal(t, "gm", p.Content)
	assert.Equal(t, "https://x.com/alice/status/1001", p.URL)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), p.Timestamp.UTC())
	assert.Equal(t, 5, p.EngagementMetrics["likes"])
	assert.Equal(t, 2, p.EngagementMetrics["retweets"])
	assert.Equal(t, []string{"https://pbs.twimg.com/media/a.jpg"}, p.MediaURLs)
}

func TestFetchWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	username := "alice"
	_, err := newAdapter(t, srv, "").Fetch(context.Background(), domain.Platform{PlatformUsername: &username})
	assert.ErrorIs(t, err, social.ErrNotConfigured)
}

func TestFetchWithoutUsername(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newAdapter(t, srv, "secret").Fetch(context.Background(), domain.Platform{})
	assert.ErrorIs(t, err, social.ErrMissingUsername)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	username := "alice"
	_, err := newAdapter(t, srv, "secret").Fetch(context.Background(), domain.Platform{PlatformUsername: &username})

	var se *social.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"twitter", "x"}, (&Adapter{}).Names())
}
