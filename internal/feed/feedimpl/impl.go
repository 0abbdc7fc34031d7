package feedimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/feed"
	"github.com/orgball2608/social-feed/internal/repositories/platform"
	"github.com/orgball2608/social-feed/internal/repositories/post"
	"github.com/orgball2608/social-feed/internal/repositories/user"
	"github.com/orgball2608/social-feed/internal/scraper"
	apperrors "github.com/orgball2608/social-feed/pkg/errors"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	UserRepo     user.Repository
	PlatformRepo platform.Repository
	PostRepo     post.Repository
	Scraper      scraper.Client
	Logger       logger.Logger
}

type FeedImpl struct {
	UserRepo     user.Repository
	PlatformRepo platform.Repository
	PostRepo     post.Repository
	Scraper      scraper.Client
	Logger       logger.Logger
}

func New(opts Opts) *FeedImpl {
	return &FeedImpl{
		UserRepo:     opts.UserRepo,
		PlatformRepo: opts.PlatformRepo,
		PostRepo:     opts.PostRepo,
		Scraper:      opts.Scraper,
		Logger:       opts.Logger.WithComponent("FeedService"),
	}
}

var _ feed.Client = (*FeedImpl)(nil)

func (s *FeedImpl) Feed(ctx context.Context, filter domain.FeedFilter) ([]*domain.FeedPost, error) {
	if filter.WalletAddress != "" {
		wallet, err := domain.NormalizeWallet(filter.WalletAddress)
		if err != nil {
			return nil, apperrors.Invalid("%s", err.Error())
		}
		filter.WalletAddress = wallet
	}
	filter.PlatformName = domain.NormalizePlatformName(filter.PlatformName)
	filter.Limit = filter.EffectiveLimit()

	posts, err := s.PostRepo.Feed(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return posts, nil
}

func (s *FeedImpl) Platforms(ctx context.Context, filter domain.PlatformFilter) ([]*domain.Platform, error) {
	if filter.WalletAddress != "" {
		wallet, err := domain.NormalizeWallet(filter.WalletAddress)
		if err != nil {
			return nil, apperrors.Invalid("%s", err.Error())
		}
		filter.WalletAddress = wallet
	}
	if filter.UserID == nil && filter.WalletAddress == "" {
		return nil, apperrors.Invalid("wallet_address or user_id is required")
	}

	platforms, err := s.PlatformRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	if platforms == nil {
		platforms = []*domain.Platform{}
	}
	return platforms, nil
}

// Connect links a new platform account and runs its first sync right away.
func (s *FeedImpl) Connect(ctx context.Context, req feed.ConnectRequest) (*feed.ConnectResult, error) {
	name := domain.NormalizePlatformName(req.PlatformName)
	if name == "" {
		return nil, apperrors.Invalid("platform_name is required")
	}

	owner, err := s.resolveUser(ctx, req)
	if err != nil {
		return nil, err
	}

	want := domain.Platform{UserID: owner.ID, PlatformName: name, IsConnected: true}
	if owner.WalletAddress != "" {
		wallet := owner.WalletAddress
		want.WalletAddress = &wallet
	}
	if username := strings.TrimSpace(req.PlatformUsername); username != "" {
		want.PlatformUsername = &username
	}

	created, err := s.PlatformRepo.Create(ctx, want)
	switch {
	case errors.Is(err, platform.ErrAlreadyExists):
		if created, err = s.reconnect(ctx, want); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to connect platform: %w", err)
	default:
		s.Logger.Info("Platform connected", "platform_id", created.ID, "platform", name, "user_id", owner.ID)
	}

	res := &feed.ConnectResult{Platform: created}
	sync, err := s.Scraper.ScrapePlatform(ctx, created.ID)
	if err != nil {
		s.Logger.Warn("Initial sync failed", "platform_id", created.ID, "error", err)
		res.SyncError = err.Error()
		return res, nil
	}
	res.Sync = sync
	return res, nil
}

func (s *FeedImpl) Disconnect(ctx context.Context, platformID uuid.UUID) error {
	if err := s.PlatformRepo.SetConnected(ctx, platformID, false); err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			return scraper.ErrPlatformNotFound
		}
		return fmt.Errorf("failed to disconnect platform %s: %w", platformID, err)
	}

	s.Logger.Info("Platform disconnected", "platform_id", platformID)
	return nil
}

// reconnect turns a previously disconnected identity back on. An identity that
// is still connected is a conflict.
func (s *FeedImpl) reconnect(ctx context.Context, want domain.Platform) (*domain.Platform, error) {
	existing, err := s.PlatformRepo.FindOrCreate(ctx, want)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing platform: %w", err)
	}
	if existing.IsConnected {
		return nil, apperrors.WrapWithCode(apperrors.ErrConflict, apperrors.CodeConflict, want.PlatformName+" account is already connected")
	}

	if err := s.PlatformRepo.SetConnected(ctx, existing.ID, true); err != nil {
		return nil, fmt.Errorf("failed to reconnect platform %s: %w", existing.ID, err)
	}
	existing.IsConnected = true

	s.Logger.Info("Platform reconnected", "platform_id", existing.ID, "platform", existing.PlatformName, "user_id", existing.UserID)
	return existing, nil
}

func (s *FeedImpl) resolveUser(ctx context.Context, req feed.ConnectRequest) (*domain.User, error) {
	if req.UserID != nil {
		u, err := s.UserRepo.GetByID(ctx, *req.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, apperrors.WrapWithCode(apperrors.ErrNotFound, apperrors.CodeNotFound, "user "+req.UserID.String())
			}
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		return u, nil
	}

	if strings.TrimSpace(req.WalletAddress) == "" {
		return nil, apperrors.Invalid("wallet_address or user_id is required")
	}
	wallet, err := domain.NormalizeWallet(req.WalletAddress)
	if err != nil {
		return nil, apperrors.Invalid("%s", err.Error())
	}

	u, err := s.UserRepo.FindOrCreateByWallet(ctx, domain.User{WalletAddress: wallet})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return u, nil
}
