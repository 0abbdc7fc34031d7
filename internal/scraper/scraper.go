package scraper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	apperrors "github.com/orgball2608/social-feed/pkg/errors"
)

var ErrPlatformNotFound = fmt.Errorf("platform %w", apperrors.ErrNotFound)

//go:generate go run go.uber.org/mock/mockgen -source=scraper.go -destination=mocks/mock.go
type Client interface {
	// ScrapeAll runs every connected platform through its adapter, in creation order.
	ScrapeAll(ctx context.Context) (*domain.ScrapeResult, error)
	// ScrapePlatform runs a single platform and always records the sync time.
	ScrapePlatform(ctx context.Context, platformID uuid.UUID) (*domain.PlatformScrapeResult, error)
	ScheduleScraping(ctx context.Context) error
}

func SummaryMessage(res *domain.ScrapeResult) string {
	return fmt.Sprintf("Scraped %d posts from %d platforms", res.Scraped, res.Platforms)
}

func SyncMessage(platformName string) string {
	return "Successfully synced " + platformName
}
