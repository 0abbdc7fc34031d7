package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
)

var ErrNotFound = errors.New("user not found")

//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=mocks/mock.go
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByWallet(ctx context.Context, walletAddress string) (*domain.User, error)

	// FindOrCreateByWallet returns the user owning the wallet, creating it on first sight.
	FindOrCreateByWallet(ctx context.Context, user domain.User) (*domain.User, error)
}
