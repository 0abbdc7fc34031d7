package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/orgball2608/social-feed/pkg/retry"
)

const maxErrorBody = 512

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// Retryable is false for client errors other than 429.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// JSONClient performs GET requests against platform REST APIs and decodes JSON bodies,
// retrying transport errors and retryable statuses.
type JSONClient struct {
	client *http.Client
	retry  retry.Config
	logger logger.Logger
}

func NewJSONClient(client *http.Client, retryCfg retry.Config, log logger.Logger) *JSONClient {
	return &JSONClient{
		client: client,
		retry:  retryCfg,
		logger: log.WithComponent("SocialHTTP"),
	}
}

// NewJSONClientFromConfig builds the shared client used by the REST adapters.
func NewJSONClientFromConfig(cfg *config.Config, log logger.Logger) *JSONClient {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Scraper.MaxRetries

	client := &http.Client{
		Timeout: cfg.Scraper.UpstreamTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return NewJSONClient(client, retryCfg, log)
}

func (c *JSONClient) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	operation := func() error {
		err := c.get(ctx, url, header, out)
		if se, ok := err.(*StatusError); ok && !se.Retryable() {
			return retry.Permanent(err)
		}
		return err
	}
	return retry.Do(ctx, c.logger, "GET "+url, operation, c.retry)
}

func (c *JSONClient) get(ctx context.Context, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Permanent(err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: req.URL.Path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Permanent(fmt.Errorf("decode %s: %w", req.URL.Path, err))
	}
	return nil
}
