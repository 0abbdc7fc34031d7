package feedclient

import (
	"context"
	"sync"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/pkg/logger"
)

const (
	DefaultPollInterval = time.Minute
	DefaultRefreshDelay = 3 * time.Second
)

type PollerOpts struct {
	UserID string
	Limit  int
	// Interval between regular refreshes.
	Interval time.Duration
	// RefreshDelay is how long after a scrape trigger the feed is reloaded once more.
	RefreshDelay time.Duration
	OnUpdate     func([]*domain.FeedPost)
	OnError      func(error)
	Logger       logger.Logger
}

// Poller keeps a copy of the feed fresh. Run drives it until its context ends.
type Poller struct {
	client *Client
	opts   PollerOpts
	log    logger.Logger
	kick   chan struct{}

	mu    sync.RWMutex
	posts []*domain.FeedPost
}

func NewPoller(client *Client, opts PollerOpts) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.RefreshDelay <= 0 {
		opts.RefreshDelay = DefaultRefreshDelay
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Poller{
		client: client,
		opts:   opts,
		log:    log.WithComponent("FeedPoller"),
		kick:   make(chan struct{}, 1),
	}
}

// Posts returns the last loaded feed.
func (p *Poller) Posts() []*domain.FeedPost {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts
}

// TriggerScrape asks the backend to scrape and schedules a delayed refresh.
func (p *Poller) TriggerScrape(ctx context.Context) (*ScrapeResponse, error) {
	res, err := p.client.TriggerScrape(ctx)
	if err != nil {
		return nil, err
	}
	p.RefreshSoon()
	return res, nil
}

// RefreshSoon schedules one extra refresh after RefreshDelay.
func (p *Poller) RefreshSoon() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run loads the feed now and then on every tick, returning ctx.Err() once ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.refresh(ctx)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	var (
		timer   *time.Timer
		delayed <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.kick:
			if timer == nil {
				timer = time.NewTimer(p.opts.RefreshDelay)
			} else {
				timer.Reset(p.opts.RefreshDelay)
			}
			delayed = timer.C
		case <-delayed:
			delayed = nil
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	posts, err := p.client.Feed(ctx, p.opts.UserID, p.opts.Limit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("Failed to refresh feed", "error", err)
		if p.opts.OnError != nil {
			p.opts.OnError(err)
		}
		return
	}

	p.mu.Lock()
	p.posts = posts
	p.mu.Unlock()

	if p.opts.OnUpdate != nil {
		p.opts.OnUpdate(posts)
	}
}
