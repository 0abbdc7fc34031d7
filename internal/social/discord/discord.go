// Package discord reads recent channel messages with a bot token.
package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

// discord caps a single messages page at 100.
const maxMessages = 100

// MessageLister is the part of *discordgo.Session the adapter uses.
type MessageLister interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

type Adapter struct {
	token  string
	limit  int
	logger logger.Logger

	mu      sync.Mutex
	session MessageLister
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *Adapter {
	return &Adapter{
		token:  opts.Config.Discord.BotToken,
		limit:  opts.Config.Scraper.PostLimit,
		logger: opts.Logger.WithComponent("DiscordAdapter"),
	}
}

// NewWithSession builds an adapter over an existing session.
func NewWithSession(session MessageLister, limit int, log logger.Logger) *Adapter {
	return &Adapter{session: session, limit: limit, logger: log.WithComponent("DiscordAdapter")}
}

var _ social.Adapter = (*Adapter)(nil)

func (a *Adapter) Names() []string {
	return []string{domain.PlatformDiscord}
}

// Fetch reads the channel whose id is stored as the platform username.
func (a *Adapter) Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error) {
	session, err := a.getSession()
	if err != nil {
		return nil, err
	}
	channelID, err := social.Handle(platform)
	if err != nil {
		return nil, err
	}

	limit := max(1, min(a.limit, maxMessages))
	messages, err := session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch discord channel %s: %w", channelID, err)
	}

	a.logger.Debug("Fetched discord messages", "channel_id", channelID, "count", len(messages))
	return mapMessages(messages), nil
}

func (a *Adapter) getSession() (MessageLister, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return a.session, nil
	}
	if a.token == "" {
		return nil, social.ErrNotConfigured
	}

	token := a.token
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}
	s, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	a.session = s
	return s, nil
}

func mapMessages(messages []*discordgo.Message) []domain.ScrapedPost {
	posts := make([]domain.ScrapedPost, 0, len(messages))
	for _, m := range messages {
		if m == nil {
			continue
		}

		reactions := 0
		for _, r := range m.Reactions {
			if r != nil {
				reactions += r.Count
			}
		}

		var media []string
		for _, att := range m.Attachments {
			if att != nil && att.URL != "" {
				media = append(media, att.URL)
			}
		}

		author := ""
		if m.Author != nil {
			author = m.Author.Username
		}

		guild := m.GuildID
		if guild == "" {
			guild = "@me"
		}

		posts = append(posts, domain.ScrapedPost{
			Source:     domain.PlatformDiscord,
			ExternalID: m.ID,
			Author:     author,
			Content:    m.Content,
			URL:        fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guild, m.ChannelID, m.ID),
			Timestamp:  m.Timestamp,
			EngagementMetrics: domain.EngagementMetrics{
				"reactions": reactions,
			},
			MediaURLs: media,
		})
	}
	return posts
}
