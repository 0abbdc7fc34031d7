// Package feedclient is a small Go client for the feed backend, mirroring what
// the dashboard does: load the feed, trigger scrapes, sync and connect platforms.
package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/feed"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/orgball2608/social-feed/pkg/retry"
)

const DefaultLimit = 50

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feed api returned %d: %s", e.StatusCode, e.Message)
}

type ScrapeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SyncResponse struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Data    *domain.PlatformScrapeResult `json:"data"`
}

type ConnectResponse struct {
	Success bool `json:"success"`
	feed.ConnectResult
}

type Opts struct {
	BaseURL    string
	HTTPClient *http.Client
	Retry      retry.Config
	Logger     logger.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.Config
	log     logger.Logger
}

func New(opts Opts) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	retryCfg := opts.Retry
	if retryCfg == (retry.Config{}) {
		retryCfg = retry.DefaultConfig()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		retry:   retryCfg,
		log:     log.WithComponent("FeedClient"),
	}
}

// Feed loads the unified feed, optionally for one user. A zero limit uses DefaultLimit.
func (c *Client) Feed(ctx context.Context, userID string, limit int) ([]*domain.FeedPost, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	body := map[string]any{"action": "feed", "limit": limit}
	if userID != "" {
		body["user_id"] = userID
	}

	var posts []*domain.FeedPost
	err := c.withRetry(ctx, "load feed", func() error {
		return c.post(ctx, "/social-scraper", body, &posts)
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) TriggerScrape(ctx context.Context) (*ScrapeResponse, error) {
	var res ScrapeResponse
	if err := c.post(ctx, "/social-scraper", map[string]any{"action": "scrape"}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SyncPlatform(ctx context.Context, platformID uuid.UUID) (*SyncResponse, error) {
	var res SyncResponse
	if err := c.post(ctx, "/sync-social-feeds", map[string]any{"platformId": platformID.String()}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ConnectPlatform links an account; the backend runs the first sync itself.
func (c *Client) ConnectPlatform(ctx context.Context, req feed.ConnectRequest) (*ConnectResponse, error) {
	var res ConnectResponse
	if err := c.post(ctx, "/platforms", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Platforms(ctx context.Context, walletAddress string) ([]*domain.Platform, error) {
	q := url.Values{}
	q.Set("wallet_address", walletAddress)

	var platforms []*domain.Platform
	err := c.withRetry(ctx, "list platforms", func() error {
		return c.do(ctx, http.MethodGet, "/platforms?"+q.Encode(), nil, &platforms)
	})
	if err != nil {
		return nil, err
	}
	return platforms, nil
}

// withRetry retries reads on transport errors and 5xx answers.
func (c *Client) withRetry(ctx context.Context, name string, fn func() error) error {
	return retry.Do(ctx, c.log, name, func() error {
		err := fn()
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return retry.Permanent(err)
		}
		return err
	}, c.retry)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
