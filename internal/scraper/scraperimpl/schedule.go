package scraperimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/social-feed/internal/scraper"
)

// ScheduleScraping runs ScrapeAll on the configured cron schedule until ctx is done.
// An empty schedule disables it.
func (s *ScraperImpl) ScheduleScraping(ctx context.Context) error {
	schedule := s.Config.Scraper.Schedule
	if schedule == "" {
		s.Logger.Info("Scheduled scraping disabled")
		return nil
	}

	loc, err := time.LoadLocation(s.Config.Scraper.Timezone)
	if err != nil {
		loc = time.UTC
		s.Logger.Warn("Failed to load scraper timezone, using UTC", "timezone", s.Config.Scraper.Timezone, "error", err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("failed to create scraper scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.Logger.Info("Context cancelled, skipping scheduled scrape")
				return
			}

			runCtx, cancel := context.WithTimeout(ctx, s.Config.Scraper.RunTimeout)
			defer cancel()

			res, err := s.ScrapeAll(runCtx)
			if err != nil {
				s.Logger.Error("Scheduled scrape failed", "error", err)
				return
			}
			s.Logger.Info("Scheduled scrape completed", "message", scraper.SummaryMessage(res))
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule scraping %q: %w", schedule, err)
	}

	scheduler.Start()
	s.Logger.Info("Scheduled scraping started", "schedule", schedule, "timezone", loc.String())

	go func() {
		<-ctx.Done()
		s.Logger.Info("Stopping scraper scheduler")
		if err := scheduler.Shutdown(); err != nil {
			s.Logger.Error("Failed to shut down scraper scheduler", "error", err)
		}
	}()

	return nil
}
