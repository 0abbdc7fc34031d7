// Package instagram reads a profile's feed through the private Instagram API.
package instagram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Davincible/goinsta/v3"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

const mediaTypeVideo = 2

// FeedSource returns the latest feed items of a profile.
type FeedSource interface {
	ProfileItems(username string) ([]*goinsta.Item, error)
}

type Adapter struct {
	source FeedSource
	limit  int
	logger logger.Logger
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *Adapter {
	log := opts.Logger.WithComponent("InstagramAdapter")

	a := &Adapter{limit: opts.Config.Scraper.PostLimit, logger: log}
	if opts.Config.Instagram.User != "" && opts.Config.Instagram.Pass != "" {
		a.source = &goinstaSource{
			user:        opts.Config.Instagram.User,
			pass:        opts.Config.Instagram.Pass,
			sessionPath: opts.Config.Instagram.SessionPath,
			logger:      log,
		}
	}
	return a
}

func NewWithSource(source FeedSource, limit int, log logger.Logger) *Adapter {
	return &Adapter{source: source, limit: limit, logger: log.WithComponent("InstagramAdapter")}
}

var _ social.Adapter = (*Adapter)(nil)

func (a *Adapter) Names() []string {
	return []string{domain.PlatformInstagram}
}

// Fetch runs the blocking goinsta call in a goroutine so ctx cancellation is honored.
func (a *Adapter) Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error) {
	if a.source == nil {
		return nil, social.ErrNotConfigured
	}
	handle, err := social.Handle(platform)
	if err != nil {
		return nil, err
	}

	type result struct {
		items []*goinsta.Item
		err   error
	}
	done := make(chan result, 1)
	go func() {
		items, err := a.source.ProfileItems(handle)
		done <- result{items, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		items := res.items
		if a.limit > 0 && len(items) > a.limit {
			items = items[:a.limit]
		}
		a.logger.Debug("Fetched instagram items", "username", handle, "count", len(items))
		return mapItems(handle, items), nil
	}
}

func mapItems(handle string, items []*goinsta.Item) []domain.ScrapedPost {
	posts := make([]domain.ScrapedPost, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		var postedAt time.Time
		if item.TakenAt > 0 {
			postedAt = time.Unix(item.TakenAt, 0).UTC()
		}

		posts = append(posts, domain.ScrapedPost{
			Source:     domain.PlatformInstagram,
			ExternalID: itemID(item),
			Author:     handle,
			Content:    item.Caption.Text,
			URL:        "https://www.instagram.com/p/" + item.Code + "/",
			Timestamp:  postedAt,
			EngagementMetrics: domain.EngagementMetrics{
				"likes":    item.Likes,
				"comments": item.CommentCount,
			},
			MediaURLs: mediaURLs(item),
		})
	}
	return posts
}

func itemID(item *goinsta.Item) string {
	if id, ok := item.ID.(string); ok && id != "" {
		return id
	}
	if item.Pk != 0 {
		return strconv.FormatInt(item.Pk, 10)
	}
	if item.ID != nil {
		return fmt.Sprint(item.ID)
	}
	return item.Code
}

func mediaURLs(item *goinsta.Item) []string {
	if item.MediaType == mediaTypeVideo && len(item.Videos) > 0 && item.Videos[0].URL != "" {
		return []string{item.Videos[0].URL}
	}
	if len(item.Images.Versions) > 0 && item.Images.Versions[0].URL != "" {
		return []string{item.Images.Versions[0].URL}
	}
	return nil
}
