package post

import (
	"context"

	"github.com/orgball2608/social-feed/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// Upsert stores posts keyed by (platform_id, platform_post_id) and returns
	// how many rows were inserted or, in ConflictUpdate mode, refreshed.
	Upsert(ctx context.Context, posts []domain.Post, mode domain.ConflictMode) (int64, error)
	// Feed returns posts joined with their platform, newest first.
	Feed(ctx context.Context, filter domain.FeedFilter) ([]*domain.FeedPost, error)
}
