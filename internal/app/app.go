package app

import (
	"context"
	"fmt"

	"github.com/orgball2608/social-feed/internal/feed"
	"github.com/orgball2608/social-feed/internal/feed/feedimpl"
	"github.com/orgball2608/social-feed/internal/httpapi"
	"github.com/orgball2608/social-feed/internal/ingest"
	"github.com/orgball2608/social-feed/internal/ingest/ingestimpl"
	"github.com/orgball2608/social-feed/internal/migrations"
	"github.com/orgball2608/social-feed/internal/ratelimit"
	repositories "github.com/orgball2608/social-feed/internal/repositories/fx"
	"github.com/orgball2608/social-feed/internal/scraper"
	"github.com/orgball2608/social-feed/internal/scraper/scraperimpl"
	social "github.com/orgball2608/social-feed/internal/social/fx"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/orgball2608/social-feed/pkg/pgx"
	"go.uber.org/fx"
)

var App = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	repositories.Module,
	social.Module,
	fx.Provide(
		fx.Annotate(
			scraperimpl.New,
			fx.As(new(scraper.Client)),
		),
		fx.Annotate(
			ingestimpl.New,
			fx.As(new(ingest.Client)),
		),
		fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Client)),
		),
		ratelimit.NewFromConfig,
		httpapi.New,
	),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, scraperClient scraper.Client, server *httpapi.Server) {
	log = log.WithComponent("App")
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if err := migrations.Up(startCtx, cfg.GetDSN()); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.Info("Migrations applied")

			if err := server.Start(startCtx); err != nil {
				return err
			}

			if err := scraperClient.ScheduleScraping(ctx); err != nil {
				log.Error("Schedule scraping error", "error", err)
			}

			if cfg.Scraper.ScrapeAtStartup {
				go func() {
					runCtx, runCancel := context.WithTimeout(ctx, cfg.Scraper.RunTimeout)
					defer runCancel()

					res, err := scraperClient.ScrapeAll(runCtx)
					if err != nil {
						log.Error("Startup scrape failed", "error", err)
						return
					}
					log.Info("Startup scrape completed", "message", scraper.SummaryMessage(res))
				}()
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return server.Stop(stopCtx)
		},
	})
}
