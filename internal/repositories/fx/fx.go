package fx

import (
	"github.com/orgball2608/social-feed/internal/repositories/platform"
	"github.com/orgball2608/social-feed/internal/repositories/post"
	"github.com/orgball2608/social-feed/internal/repositories/user"
	"go.uber.org/fx"
)

var Module = fx.Options(
	user.Module,
	platform.Module,
	post.Module,
)
