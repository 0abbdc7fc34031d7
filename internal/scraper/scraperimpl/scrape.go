package scraperimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/repositories/platform"
	"github.com/orgball2608/social-feed/internal/scraper"
	"github.com/orgball2608/social-feed/internal/social"
)

func (s *ScraperImpl) ScrapeAll(ctx context.Context) (*domain.ScrapeResult, error) {
	s.Logger.Info("Starting social media scraping")

	platforms, err := s.PlatformRepo.ListConnected(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected platforms: %w", err)
	}

	res := &domain.ScrapeResult{
		Platforms: len(platforms),
		Details:   make([]domain.PlatformScrapeResult, 0, len(platforms)),
	}

	for _, p := range platforms {
		if err := ctx.Err(); err != nil {
			s.Logger.Warn("Scrape run interrupted", "done", len(res.Details), "platforms", len(platforms), "error", err)
			return res, err
		}

		detail := s.scrapeOne(ctx, *p)
		if detail.Error == "" {
			res.Scraped += detail.Fetched
		}
		res.Details = append(res.Details, detail)
	}

	s.Logger.Info("Scraping finished", "scraped", res.Scraped, "platforms", res.Platforms)
	return res, nil
}

func (s *ScraperImpl) ScrapePlatform(ctx context.Context, platformID uuid.UUID) (*domain.PlatformScrapeResult, error) {
	s.Logger.Info("Syncing social feeds for platform", "platform_id", platformID)

	p, err := s.PlatformRepo.GetByID(ctx, platformID)
	if err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			return nil, scraper.ErrPlatformNotFound
		}
		return nil, fmt.Errorf("failed to load platform %s: %w", platformID, err)
	}

	detail := s.scrapeOne(ctx, *p)

	if err := s.PlatformRepo.UpdateLastSync(ctx, p.ID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to update last sync of %s: %w", p.ID, err)
	}
	return &detail, nil
}

// scrapeOne never fails the caller: adapter and storage errors are logged and
// reported in the result. last_sync_at moves only when the adapter returned posts.
func (s *ScraperImpl) scrapeOne(ctx context.Context, p domain.Platform) domain.PlatformScrapeResult {
	detail := domain.PlatformScrapeResult{PlatformID: p.ID, PlatformName: p.PlatformName}
	log := s.Logger.With("platform_id", p.ID, "platform", p.PlatformName)

	adapter, ok := s.Registry.Lookup(p.PlatformName)
	if !ok {
		log.Warn("No scraper for platform")
		return detail
	}

	fetchCtx := ctx
	if timeout := s.fetchTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	scraped, err := adapter.Fetch(fetchCtx, p)
	if errors.Is(err, social.ErrNotConfigured) {
		log.Warn("Scraper for platform is not configured")
		return detail
	}
	if err != nil {
		log.Error("Error scraping platform", "error", err)
		detail.Error = err.Error()
		return detail
	}
	if len(scraped) == 0 {
		return detail
	}

	fetchedAt := s.now()
	posts := make([]domain.Post, 0, len(scraped))
	for _, sp := range scraped {
		if sp.ExternalID == "" {
			log.Warn("Skipping scraped post without external id", "url", sp.URL)
			continue
		}
		posts = append(posts, sp.ToPost(p.ID, fetchedAt))
	}
	detail.Fetched = len(posts)

	if len(posts) > 0 {
		stored, err := s.PostRepo.Upsert(ctx, posts, domain.ConflictIgnore)
		if err != nil {
			log.Error("Error inserting posts", "error", err)
			detail.Error = err.Error()
		} else {
			detail.Stored = stored
			log.Info("Scraped posts", "count", len(posts), "new", stored)
		}
	}

	if err := s.PlatformRepo.UpdateLastSync(ctx, p.ID, fetchedAt); err != nil {
		log.Error("Failed to update last sync time", "error", err)
	}
	return detail
}
