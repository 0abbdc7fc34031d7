// Package linkedin reads posts of a member or organization through the LinkedIn REST API.
package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

const urnPrefix = "urn:li:"

type Adapter struct {
	http        *social.JSONClient
	baseURL     string
	accessToken string
	version     string
	limit       int
	logger      logger.Logger
}

type Opts struct {
	fx.In

	Config *config.Config
	HTTP   *social.JSONClient
	Logger logger.Logger
}

func New(opts Opts) *Adapter {
	return &Adapter{
		http:        opts.HTTP,
		baseURL:     strings.TrimRight(opts.Config.LinkedIn.BaseURL, "/"),
		accessToken: opts.Config.LinkedIn.AccessToken,
		version:     opts.Config.LinkedIn.Version,
		limit:       opts.Config.Scraper.PostLimit,
		logger:      opts.Logger.WithComponent("LinkedInAdapter"),
	}
}

var _ social.Adapter = (*Adapter)(nil)

func (a *Adapter) Names() []string {
	return []string{domain.PlatformLinkedIn}
}

type element struct {
	ID          string `json:"id"`
	Commentary  string `json:"commentary"`
	PublishedAt int64  `json:"publishedAt"`
	CreatedAt   int64  `json:"createdAt"`
	Content     struct {
		Article struct {
			Source    string `json:"source"`
			Title     string `json:"title"`
			Thumbnail string `json:"thumbnail"`
		} `json:"article"`
	} `json:"content"`
	SocialDetail *struct {
		TotalSocialActivityCounts struct {
			NumLikes    int `json:"numLikes"`
			NumComments int `json:"numComments"`
			NumShares   int `json:"numShares"`
		} `json:"totalSocialActivityCounts"`
	} `json:"socialDetail,omitempty"`
}

type postsResponse struct {
	Elements []element `json:"elements"`
}

// AuthorURN turns a stored username into an author URN. Bare ids are taken as organizations.
func AuthorURN(username string) string {
	if strings.HasPrefix(username, urnPrefix) {
		return username
	}
	return urnPrefix + "organization:" + username
}

func (a *Adapter) Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error) {
	if a.accessToken == "" {
		return nil, social.ErrNotConfigured
	}
	handle, err := social.Handle(platform)
	if err != nil {
		return nil, err
	}
	author := AuthorURN(handle)

	q := url.Values{}
	q.Set("q", "author")
	q.Set("author", author)
	q.Set("count", fmt.Sprint(max(a.limit, 1)))
	q.Set("sortBy", "LAST_MODIFIED")

	header := http.Header{
		"Authorization":             []string{"Bearer " + a.accessToken},
		"Linkedin-Version":          []string{a.version},
		"X-Restli-Protocol-Version": []string{"2.0.0"},
	}

	var resp postsResponse
	if err := a.http.GetJSON(ctx, a.baseURL+"/rest/posts?"+q.Encode(), header, &resp); err != nil {
		return nil, fmt.Errorf("fetch linkedin posts of %s: %w", author, err)
	}

	a.logger.Debug("Fetched linkedin posts", "author", author, "count", len(resp.Elements))
	return mapElements(handle, resp.Elements), nil
}

func mapElements(author string, elements []element) []domain.ScrapedPost {
	posts := make([]domain.ScrapedPost, 0, len(elements))
	for _, e := range elements {
		ts := e.PublishedAt
		if ts == 0 {
			ts = e.CreatedAt
		}

		var postedAt time.Time
		if ts > 0 {
			postedAt = time.UnixMilli(ts).UTC()
		}

		content := e.Commentary
		if content == "" {
			content = e.Content.Article.Title
		}

		var media []string
		if thumb := e.Content.Article.Thumbnail; strings.HasPrefix(thumb, "https://") || strings.HasPrefix(thumb, "http://") {
			media = []string{thumb}
		}

		var metrics domain.EngagementMetrics
		if e.SocialDetail != nil {
			c := e.SocialDetail.TotalSocialActivityCounts
			metrics = domain.EngagementMetrics{"likes": c.NumLikes, "comments": c.NumComments, "shares": c.NumShares}
		}

		posts = append(posts, domain.ScrapedPost{
			Source:            domain.PlatformLinkedIn,
			ExternalID:        e.ID,
			Author:            author,
			Content:           content,
			URL:               "https://www.linkedin.com/feed/update/" + e.ID,
			Timestamp:         postedAt,
			EngagementMetrics: metrics,
			MediaURLs:         media,
		})
	}
	return posts
}
