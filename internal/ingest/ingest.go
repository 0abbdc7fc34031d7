package ingest

import (
	"context"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
)

const (
	MaxBatchSize    = 1000
	MaxPostIDLength = 255
	// MaxFutureSkew is how far ahead of now a posted_at may be.
	MaxFutureSkew = 24 * time.Hour
)

//go:generate go run go.uber.org/mock/mockgen -source=ingest.go -destination=mocks/mock.go
type Client interface {
	// Ingest stores a batch of normalized posts for one platform identity,
	// creating the user and platform on first sight.
	Ingest(ctx context.Context, batch domain.IngestBatch) (*domain.IngestResult, error)
}
