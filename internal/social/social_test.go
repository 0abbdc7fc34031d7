package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/orgball2608/social-feed/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	names []string
}

func (s stubAdapter) Names() []string { return s.names }

func (s stubAdapter) Fetch(context.Context, domain.Platform) ([]domain.ScrapedPost, error) {
	return nil, nil
}

func TestRegistryLookup(t *testing.T) {
	tw := stubAdapter{names: []string{"twitter", "x"}}
	gh := stubAdapter{names: []string{"Ghost"}}

	r := NewRegistry(RegistryOpts{Adapters: []Adapter{tw, gh}, Logger: logger.NewNop()})

	got, ok := r.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, tw, got)

	got, ok = r.Lookup("ghost")
	require.True(t, ok)
	assert.Equal(t, gh, got)

	_, ok = r.Lookup("mastodon")
	assert.False(t, ok)

	assert.Equal(t, []string{"ghost", "twitter"}, r.Names())
}

func TestHandle(t *testing.T) {
	name := " @alice "
	h, err := Handle(domain.Platform{PlatformUsername: &name})
	require.NoError(t, err)
	assert.Equal(t, "alice", h)

	_, err = Handle(domain.Platform{})
	assert.ErrorIs(t, err, ErrMissingUsername)
}

func fastRetry(n uint64) retry.Config {
	return retry.Config{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "v", r.Header.Get("X-Test"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewJSONClient(srv.Client(), fastRetry(3), logger.NewNop())

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.GetJSON(context.Background(), srv.URL, http.Header{"X-Test": []string{"v"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewJSONClient(srv.Client(), fastRetry(3), logger.NewNop())

	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL+"/posts", nil, &out)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "/posts", se.URL)
	assert.EqualValues(t, 1, calls.Load())
}

func TestStatusErrorRetryable(t *testing.T) {
	assert.True(t, (&StatusError{StatusCode: http.StatusTooManyRequests}).Retryable())
	assert.True(t, (&StatusError{StatusCode: http.StatusBadGateway}).Retryable())
	assert.False(t, (&StatusError{StatusCode: http.StatusNotFound}).Retryable())
}
