package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	channelID string
	limit     int
	messages  []*discordgo.Message
	err       error
}

func (f *fakeSession) ChannelMessages(channelID string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.channelID = channelID
	f.limit = limit
	return f.messages, f.err
}

func TestFetch(t *testing.T) {
	ts := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	session := &fakeSession{messages: []*discordgo.Message{
		{
			ID:        "m1",
			ChannelID: "c1",
			GuildID:   "g1",
			Content:   "release is out",
			Timestamp: ts,
			Author:    &discordgo.User{Username: "bob"},
			Reactions: []*discordgo.MessageReactions{{Count: 3}, {Count: 2}},
			Attachments: []*discordgo.MessageAttachment{
				{URL: "https://cdn.discordapp.com/attachments/1/a.png"},
				{URL: ""},
			},
		},
		nil,
	}}

	a := NewWithSession(session, 500, logger.NewNop())

	channel := "c1"
	posts, err := a.Fetch(context.Background(), domain.Platform{PlatformUsername: &channel})
	require.NoError(t, err)

	assert.Equal(t, "c1", session.channelID)
	assert.Equal(t, maxMessages, session.limit)

	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "m1", p.ExternalID)
	assert.Equal(t, "bob", p.Author)
	assert.Equal(t, "https://discord.com/channels/g1/c1/m1", p.URL)
	assert.Equal(t, ts, p.Timestamp)
	assert.Equal(t, 5, p.EngagementMetrics["reactions"])
	assert.Equal(t, []string{"https://cdn.discordapp.com/attachments/1/a.png"}, p.MediaURLs)
}

func TestFetchError(t *testing.T) {
	a := NewWithSession(&fakeSession{err: errors.New("401: Unauthorized")}, 10, logger.NewNop())

	channel := "c1"
	_, err := a.Fetch(context.Background(), domain.Platform{PlatformUsername: &channel})
	assert.ErrorContains(t, err, "fetch discord channel c1")
}

func TestFetchNotConfigured(t *testing.T) {
	a := New(Opts{Config: &config.Config{}, Logger: logger.NewNop()})

	channel := "c1"
	_, err := a.Fetch(context.Background(), domain.Platform{PlatformUsername: &channel})
	assert.ErrorIs(t, err, social.ErrNotConfigured)
}

func TestDirectMessageLink(t *testing.T) {
	posts := mapMessages([]*discordgo.Message{{ID: "m", ChannelID: "c"}})
	require.Len(t, posts, 1)
	assert.Equal(t, "https://discord.com/channels/@me/c/m", posts[0].URL)
	assert.Equal(t, "", posts[0].Author)
}
