// Package httpapi exposes the scraper, ingest and feed services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/orgball2608/social-feed/internal/feed"
	"github.com/orgball2608/social-feed/internal/ingest"
	"github.com/orgball2608/social-feed/internal/ratelimit"
	"github.com/orgball2608/social-feed/internal/scraper"
	"github.com/orgball2608/social-feed/pkg/config"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Scraper scraper.Client
	Ingest  ingest.Client
	Feed    feed.Client
	Limiter ratelimit.Limiter
}

type Server struct {
	cfg     *config.Config
	log     logger.Logger
	scraper scraper.Client
	ingest  ingest.Client
	feed    feed.Client
	limiter ratelimit.Limiter

	srv *http.Server
}

func New(opts Opts) *Server {
	s := &Server{
		cfg:     opts.Config,
		log:     opts.Logger.WithComponent("HTTPServer"),
		scraper: opts.Scraper,
		ingest:  opts.Ingest,
		feed:    opts.Feed,
		limiter: opts.Limiter,
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:      s.Routes(),
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
	}
	return s
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.cfg.HTTP.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(s.requestLog)

	r.Get("/healthz", s.handleHealth)

	r.HandleFunc("/social-scraper", s.handleSocialScraper)
	r.With(s.limitTriggers).Post("/sync-social-feeds", s.handleSync)
	r.Post("/ingest", s.handleIngest)

	r.Get("/feed", s.handleFeed)
	r.Route("/platforms", func(r chi.Router) {
		r.Get("/", s.handleListPlatforms)
		r.With(s.limitTriggers).Post("/", s.handleConnect)
		r.Post("/{id}/disconnect", s.handleDisconnect)
	})

	return r
}

// Start begins serving in the background. The listener is bound before it returns.
func (s *Server) Start(context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	s.log.Info("Starting HTTP server", "addr", ln.Addr().String())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server stopped", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}
