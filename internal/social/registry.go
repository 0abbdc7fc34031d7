package social

import (
	"sort"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

type Registry struct {
	adapters map[string]Adapter
}

type RegistryOpts struct {
	fx.In

	Adapters []Adapter `group:"adapters"`
	Logger   logger.Logger
}

func NewRegistry(opts RegistryOpts) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range opts.Adapters {
		for _, name := range a.Names() {
			r.adapters[domain.NormalizePlatformName(name)] = a
		}
	}

	if opts.Logger != nil {
		opts.Logger.WithComponent("SocialRegistry").Info("Platform adapters registered", "platforms", r.Names())
	}
	return r
}

// Lookup resolves the adapter for a platform name, accepting aliases such as "x".
func (r *Registry) Lookup(name string) (Adapter, bool) {
	a, ok := r.adapters[domain.NormalizePlatformName(name)]
	return a, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
