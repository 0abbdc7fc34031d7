// Package twitter fetches recent posts through the X API v2.
package twitter

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

const (
	minResults = 5
	maxResults = 100
)

type Adapter struct {
	http        *social.JSONClient
	baseURL     string
	bearerToken string
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
		baseURL:     strings.TrimRight(opts.Config.Twitter.BaseURL, "/"),
		bearerToken: opts.Config.Twitter.BearerToken,
		limit:       opts.Config.Scraper.PostLimit,
		logger:      opts.Logger.WithComponent("TwitterAdapter"),
	}
}

var _ social.Adapter = (*Adapter)(nil)

func (a *Adapter) Names() []string {
	return []string{domain.PlatformTwitter, domain.PlatformX}
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type tweet struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
	PublicMetrics struct {
		LikeCount    int `json:"like_count"`
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
	Attachments struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`
}

type media struct {
	MediaKey        string `json:"media_key"`
	URL             string `json:"url"`
	PreviewImageURL string `json:"preview_image_url"`
}

type timelineResponse struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Media []media `json:"media"`
	} `json:"includes"`
}

func (a *Adapter) Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error) {
	if a.bearerToken == "" {
		return nil, social.ErrNotConfigured
	}
	handle, err := social.Handle(platform)
	if err != nil {
		return nil, err
	}

	header := http.Header{"Authorization": []string{"Bearer " + a.bearerToken}}

	var user userResponse
	if err := a.http.GetJSON(ctx, a.baseURL+"/2/users/by/username/"+url.PathEscape(handle), header, &user); err != nil {
		return nil, fmt.Errorf("resolve twitter user %s: %w", handle, err)
	}
	if user.Data.ID == "" {
		return nil, fmt.Errorf("twitter user %s not found", handle)
	}

	q := url.Values{}
	q.Set("max_results", fmt.Sprint(clamp(a.limit)))
	q.Set("tweet.fields", "created_at,public_metrics,attachments")
	q.Set("expansions", "attachments.media_keys")
	q.Set("media.fields", "url,preview_image_url")

	var timeline timelineResponse
	endpoint := fmt.Sprintf("%s/2/users/%s/tweets?%s", a.baseURL, url.PathEscape(user.Data.ID), q.Encode())
	if err := a.http.GetJSON(ctx, endpoint, header, &timeline); err != nil {
		return nil, fmt.Errorf("fetch tweets of %s: %w", handle, err)
	}

	a.logger.Debug("Fetched tweets", "username", handle, "count", len(timeline.Data))
	return mapTimeline(handle, timeline), nil
}

func mapTimeline(handle string, timeline timelineResponse) []domain.ScrapedPost {
	mediaByKey := make(map[string]string, len(timeline.Includes.Media))
	for _, m := range timeline.Includes.Media {
		if m.URL != "" {
			mediaByKey[m.MediaKey] = m.URL
		} else if m.PreviewImageURL != "" {
			mediaByKey[m.MediaKey] = m.PreviewImageURL
		}
	}

	posts := make([]domain.ScrapedPost, 0, len(timeline.Data))
	for _, t := range timeline.Data {
		var mediaURLs []string
		for _, key := range t.Attachments.MediaKeys {
			if u, ok := mediaByKey[key]; ok {
				mediaURLs = append(mediaURLs, u)
			}
		}

		posts = append(posts, domain.ScrapedPost{
			Source:     domain.PlatformTwitter,
			ExternalID: t.ID,
			Author:     handle,
			Content:    t.Text,
			URL:        fmt.Sprintf("https://x.com/%s/status/%s", handle, t.ID),
			Timestamp:  t.CreatedAt,
			EngagementMetrics: domain.EngagementMetrics{
				"likes":    t.PublicMetrics.LikeCount,
				"retweets": t.PublicMetrics.RetweetCount,
				"replies":  t.PublicMetrics.ReplyCount,
				"quotes":   t.PublicMetrics.QuoteCount,
			},
			MediaURLs: mediaURLs,
		})
	}
	return posts
}

func clamp(limit int) int {
	return max(minResults, min(limit, maxResults))
}
