// Package ghost reads published posts from a Ghost site's Content API.
package ghost

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/formatter"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

const maxContent = 4000

type Adapter struct {
	http       *social.JSONClient
	baseURL    string
	contentKey string
	limit      int
	logger     logger.Logger
}

type Opts struct {
	fx.In

	Config *config.Config
	HTTP   *social.JSONClient
	Logger logger.Logger
}

func New(opts Opts) *Adapter {
	return &Adapter{
		http:       opts.HTTP,
		baseURL:    strings.TrimRight(opts.Config.Ghost.BaseURL, "/"),
		contentKey: opts.Config.Ghost.ContentKey,
		limit:      opts.Config.Scraper.PostLimit,
		logger:     opts.Logger.WithComponent("GhostAdapter"),
	}
}

var _ social.Adapter = (*Adapter)(nil)

func (a *Adapter) Names() []string {
	return []string{domain.PlatformGhost}
}

type post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	HTML         string    `json:"html"`
	Excerpt      string    `json:"excerpt"`
	URL          string    `json:"url"`
	FeatureImage string    `json:"feature_image"`
	PublishedAt  time.Time `json:"published_at"`
	ReadingTime  int       `json:"reading_time"`
}

type postsResponse struct {
	Posts []post `json:"posts"`
}

// Fetch lists the site's latest posts. A platform username is treated as an
// author slug and narrows the list to that author.
func (a *Adapter) Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error) {
	if a.baseURL == "" || a.contentKey == "" {
		return nil, social.ErrNotConfigured
	}

	q := url.Values{}
	q.Set("key", a.contentKey)
	q.Set("limit", fmt.Sprint(max(a.limit, 1)))
	q.Set("fields", "id,title,html,excerpt,url,feature_image,published_at,reading_time")
	q.Set("order", "published_at desc")

	author := strings.TrimPrefix(strings.TrimSpace(platform.Username()), "@")
	if author != "" {
		q.Set("filter", "authors:"+author)
	}

	var resp postsResponse
	if err := a.http.GetJSON(ctx, a.baseURL+"/ghost/api/content/posts/?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch ghost posts: %w", err)
	}

	a.logger.Debug("Fetched ghost posts", "author", author, "count", len(resp.Posts))
	return mapPosts(author, resp.Posts), nil
}

func mapPosts(author string, posts []post) []domain.ScrapedPost {
	out := make([]domain.ScrapedPost, 0, len(posts))
	for _, p := range posts {
		body := formatter.PlainText(p.HTML)
		if body == "" {
			body = p.Excerpt
		}

		content := p.Title
		if body != "" {
			content = strings.TrimSpace(content + "\n\n" + body)
		}

		var media []string
		if p.FeatureImage != "" {
			media = []string{p.FeatureImage}
		}

		out = append(out, domain.ScrapedPost{
			Source:            domain.PlatformGhost,
			ExternalID:        p.ID,
			Author:            author,
			Content:           formatter.Truncate(content, maxContent),
			URL:               p.URL,
			Timestamp:         p.PublishedAt,
			EngagementMetrics: domain.EngagementMetrics{"reading_time": p.ReadingTime},
			MediaURLs:         media,
		})
	}
	return out
}
