// Package social holds the platform adapters that fetch posts from third-party APIs.
package social

import (
	"context"
	"errors"
	"strings"

	"github.com/orgball2608/social-feed/internal/domain"
)

var (
	ErrNotConfigured   = errors.New("platform adapter is not configured")
	ErrMissingUsername = errors.New("platform username is required")
)

// Adapter fetches the latest posts of a single linked platform account.
type Adapter interface {
	// Names lists the normalized platform names served by the adapter.
	Names() []string
	Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error)
}

// Handle returns the platform username without a leading "@", or ErrMissingUsername.
func Handle(platform domain.Platform) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(platform.Username()), "@")
	if h == "" {
		return "", ErrMissingUsername
	}
	return h, nil
}
