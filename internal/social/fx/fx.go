package fx

import (
	"github.com/orgball2608/social-feed/internal/social"
	"github.com/orgball2608/social-feed/internal/social/discord"
	"github.com/orgball2608/social-feed/internal/social/ghost"
	"github.com/orgball2608/social-feed/internal/social/instagram"
	"github.com/orgball2608/social-feed/internal/social/linkedin"
	"github.com/orgball2608/social-feed/internal/social/telegram"
	"github.com/orgball2608/social-feed/internal/social/twitter"
	"go.uber.org/fx"
)

func asAdapter(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(social.Adapter)),
		fx.ResultTags(`group:"adapters"`),
	)
}

var Module = fx.Module("social",
	fx.Provide(
		social.NewJSONClientFromConfig,
		social.NewRegistry,
		asAdapter(twitter.New),
		asAdapter(linkedin.New),
		asAdapter(ghost.New),
		asAdapter(discord.New),
		asAdapter(instagram.New),
		asAdapter(telegram.New),
	),
)
