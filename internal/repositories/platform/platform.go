package platform

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
)

var (
	ErrNotFound      = errors.New("platform not found")
	ErrAlreadyExists = errors.New("platform already exists")
)

//go:generate go run go.uber.org/mock/mockgen -source=platform.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, platform domain.Platform) (*domain.Platform, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Platform, error)
	List(ctx context.Context, filter domain.PlatformFilter) ([]*domain.Platform, error)
	// ListConnected returns every connected platform, oldest first.
	ListConnected(ctx context.Context) ([]*domain.Platform, error)
	FindOrCreate(ctx context.Context, platform domain.Platform) (*domain.Platform, error)
	UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error
	SetConnected(ctx context.Context, id uuid.UUID, connected bool) error
}
