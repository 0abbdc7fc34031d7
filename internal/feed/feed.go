package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
)

type ConnectRequest struct {
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	WalletAddress    string     `json:"wallet_address,omitempty"`
	PlatformName     string     `json:"platform_name"`
	PlatformUsername string     `json:"platform_username"`
}

// ConnectResult carries the new platform and the outcome of its initial sync.
// A failed sync does not undo the connect.
type ConnectResult struct {
	Platform  *domain.Platform             `json:"platform"`
	Sync      *domain.PlatformScrapeResult `json:"sync,omitempty"`
	SyncError string                       `json:"sync_error,omitempty"`
}

//go:generate go run go.uber.org/mock/mockgen -source=feed.go -destination=mocks/mock.go
type Client interface {
	Feed(ctx context.Context, filter domain.FeedFilter) ([]*domain.FeedPost, error)
	Platforms(ctx context.Context, filter domain.PlatformFilter) ([]*domain.Platform, error)
	Connect(ctx context.Context, req ConnectRequest) (*ConnectResult, error)
	Disconnect(ctx context.Context, platformID uuid.UUID) error
}
