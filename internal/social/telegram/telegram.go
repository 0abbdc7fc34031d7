// Package telegram reads public channel posts seen by a bot that is a channel admin.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

// getUpdates returns at most 100 updates per call.
const maxUpdates = 100

type Adapter struct {
	token    string
	endpoint string
	limit    int
	logger   logger.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *Adapter {
	endpoint := opts.Config.Telegram.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Adapter{
		token:    opts.Config.Telegram.BotToken,
		endpoint: endpoint,
		limit:    opts.Config.Scraper.PostLimit,
		logger:   opts.Logger.WithComponent("TelegramAdapter"),
	}
}

var _ social.Adapter = (*Adapter)(nil)

func (a *Adapter) Names() []string {
	return []string{domain.PlatformTelegram}
}

// Fetch filters pending channel posts by the channel username. The update
// offset is never confirmed because one bot serves every linked channel.
func (a *Adapter) Fetch(ctx context.Context, platform domain.Platform) ([]domain.ScrapedPost, error) {
	bot, err := a.getBot()
	if err != nil {
		return nil, err
	}
	channel, err := social.Handle(platform)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := tgbotapi.NewUpdate(0)
	u.Limit = maxUpdates
	u.AllowedUpdates = []string{"channel_post", "edited_channel_post"}

	updates, err := bot.GetUpdates(u)
	if err != nil {
		return nil, fmt.Errorf("fetch telegram updates: %w", err)
	}

	posts := mapUpdates(channel, updates)
	if a.limit > 0 && len(posts) > a.limit {
		posts = posts[len(posts)-a.limit:]
	}

	a.logger.Debug("Fetched telegram channel posts", "channel", channel, "updates", len(updates), "count", len(posts))
	return posts, nil
}

func (a *Adapter) getBot() (*tgbotapi.BotAPI, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.bot != nil {
		return a.bot, nil
	}
	if a.token == "" {
		return nil, social.ErrNotConfigured
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(a.token, a.endpoint)
	if err != nil {
		// The token is part of the request URL, keep it out of the error.
		return nil, fmt.Errorf("create telegram bot: %s", strings.ReplaceAll(err.Error(), a.token, "***"))
	}
	a.bot = bot
	return bot, nil
}

// mapUpdates keeps the latest version of each channel post, edits included.
func mapUpdates(channel string, updates []tgbotapi.Update) []domain.ScrapedPost {
	index := make(map[int]int)
	posts := make([]domain.ScrapedPost, 0)

	for _, upd := range updates {
		msg := upd.ChannelPost
		if msg == nil {
			msg = upd.EditedChannelPost
		}
		if msg == nil || msg.Chat == nil || !strings.EqualFold(msg.Chat.UserName, channel) {
			continue
		}

		text := msg.Text
		if text == "" {
			text = msg.Caption
		}

		post := domain.ScrapedPost{
			Source:     domain.PlatformTelegram,
			ExternalID: fmt.Sprint(msg.MessageID),
			Author:     msg.Chat.UserName,
			Content:    text,
			URL:        fmt.Sprintf("https://t.me/%s/%d", msg.Chat.UserName, msg.MessageID),
			Timestamp:  time.Unix(int64(msg.Date), 0).UTC(),
		}
		if msg.AuthorSignature != "" {
			post.Author = msg.AuthorSignature
		}

		if i, ok := index[msg.MessageID]; ok {
			posts[i] = post
			continue
		}
		index[msg.MessageID] = len(posts)
		posts = append(posts, post)
	}
	return posts
}
