package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/repositories"
	"github.com/orgball2608/social-feed/pkg/logger"
)

var columns = []string{"id", "wallet_address", "chain_id", "wallet_type", "is_active", "created_at", "updated_at"}

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("UserRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *PgxRepository) GetByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"wallet_address": walletAddress})
}

func (r *PgxRepository) FindOrCreateByWallet(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.ChainID == 0 {
		u.ChainID = domain.DefaultChainID
	}
	if u.WalletType == "" {
		u.WalletType = domain.WalletTypeMetamask
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	query, args, err := repositories.SqBuilder.
		Insert("web3_users").
		Columns("wallet_address", "chain_id", "wallet_type").
		Values(u.WalletAddress, u.ChainID, u.WalletType).
		Suffix("ON CONFLICT (wallet_address) DO UPDATE SET wallet_address = EXCLUDED.wallet_address RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	found, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", u.WalletAddress, err)
	}
	return found, nil
}

func (r *PgxRepository) getOne(ctx context.Context, where sq.Eq) (*domain.User, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From("web3_users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	u, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scan(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.WalletAddress, &u.ChainID, &u.WalletType, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func columnList() string {
	return strings.Join(columns, ", ")
}
