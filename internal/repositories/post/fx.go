package post

import (
	"go.uber.org/fx"
)

// Module provides the post Repository backed by pgx.
var Module = fx.Module("social_post_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
