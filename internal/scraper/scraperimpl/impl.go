package scraperimpl

import (
	"time"

	"github.com/orgball2608/social-feed/internal/repositories/platform"
	"github.com/orgball2608/social-feed/internal/repositories/post"
	"github.com/orgball2608/social-feed/internal/scraper"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Registry     *social.Registry
	PlatformRepo platform.Repository
	PostRepo     post.Repository
	Config       *config.Config
	Logger       logger.Logger
}

type ScraperImpl struct {
	Registry     *social.Registry
	PlatformRepo platform.Repository
	PostRepo     post.Repository
	Config       *config.Config
	Logger       logger.Logger

	now func() time.Time
}

func New(opts Opts) *ScraperImpl {
	return &ScraperImpl{
		Registry:     opts.Registry,
		PlatformRepo: opts.PlatformRepo,
		PostRepo:     opts.PostRepo,
		Config:       opts.Config,
		Logger:       opts.Logger.WithComponent("ScraperService"),
		now:          time.Now,
	}
}

var _ scraper.Client = (*ScraperImpl)(nil)

// fetchTimeout bounds one adapter call including its retries.
func (s *ScraperImpl) fetchTimeout() time.Duration {
	upstream := s.Config.Scraper.UpstreamTimeout
	if upstream <= 0 {
		return 0
	}
	return upstream * time.Duration(s.Config.Scraper.MaxRetries+1)
}
