package ingestimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/ingest"
	"github.com/orgball2608/social-feed/internal/repositories/platform"
	"github.com/orgball2608/social-feed/internal/repositories/post"
	"github.com/orgball2608/social-feed/internal/repositories/user"
	apperrors "github.com/orgball2608/social-feed/pkg/errors"
	"github.com/orgball2608/social-feed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	UserRepo     user.Repository
	PlatformRepo platform.Repository
	PostRepo     post.Repository
	Logger       logger.Logger
}

type IngestImpl struct {
	UserRepo     user.Repository
	PlatformRepo platform.Repository
	PostRepo     post.Repository
	Logger       logger.Logger

	now func() time.Time
}

func New(opts Opts) *IngestImpl {
	return &IngestImpl{
		UserRepo:     opts.UserRepo,
		PlatformRepo: opts.PlatformRepo,
		PostRepo:     opts.PostRepo,
		Logger:       opts.Logger.WithComponent("IngestService"),
		now:          time.Now,
	}
}

var _ ingest.Client = (*IngestImpl)(nil)

func (s *IngestImpl) Ingest(ctx context.Context, batch domain.IngestBatch) (*domain.IngestResult, error) {
	owner, err := ingest.ValidateBatch(batch)
	if err != nil {
		return nil, apperrors.Invalid("%s", err.Error())
	}

	now := s.now()
	posts, rejected := ingest.Validate(batch.Posts, now)

	p, err := s.resolvePlatform(ctx, owner)
	if err != nil {
		return nil, err
	}

	res := &domain.IngestResult{
		PlatformID: p.ID,
		Received:   len(batch.Posts),
		Rejected:   rejected,
	}

	log := s.Logger.With("platform_id", p.ID, "platform", p.PlatformName)
	if len(posts) == 0 {
		log.Info("Ingest batch had no valid posts", "received", res.Received, "rejected", len(rejected))
		return res, nil
	}

	for i := range posts {
		posts[i].PlatformID = p.ID
	}

	stored, err := s.PostRepo.Upsert(ctx, posts, domain.ConflictUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to store ingested posts: %w", err)
	}
	res.Stored = stored

	if stored > 0 {
		if err := s.PlatformRepo.UpdateLastSync(ctx, p.ID, now); err != nil {
			log.Error("Failed to update last sync time", "error", err)
		}
	}

	log.Info("Ingest batch stored", "received", res.Received, "stored", stored, "rejected", len(rejected))
	return res, nil
}

func (s *IngestImpl) resolvePlatform(ctx context.Context, owner ingest.Owner) (*domain.Platform, error) {
	var (
		u   *domain.User
		err error
	)
	if owner.UserID != nil {
		u, err = s.UserRepo.GetByID(ctx, *owner.UserID)
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.WrapWithCode(apperrors.ErrNotFound, apperrors.CodeNotFound, "user "+owner.UserID.String())
		}
	} else {
		u, err = s.UserRepo.FindOrCreateByWallet(ctx, domain.User{
			WalletAddress: owner.WalletAddress,
			ChainID:       owner.ChainID,
			WalletType:    owner.WalletType,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	want := domain.Platform{
		UserID:       u.ID,
		PlatformName: owner.PlatformName,
		IsConnected:  true,
	}
	if u.WalletAddress != "" {
		wallet := u.WalletAddress
		want.WalletAddress = &wallet
	}
	if owner.PlatformUsername != "" {
		username := owner.PlatformUsername
		want.PlatformUsername = &username
	}

	p, err := s.PlatformRepo.FindOrCreate(ctx, want)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve platform: %w", err)
	}

	if !p.IsConnected {
		if err := s.PlatformRepo.SetConnected(ctx, p.ID, true); err != nil {
			return nil, fmt.Errorf("failed to reconnect platform %s: %w", p.ID, err)
		}
		p.IsConnected = true
		s.Logger.Info("Platform reconnected by ingest", "platform_id", p.ID, "platform", p.PlatformName)
	}
	return p, nil
}
