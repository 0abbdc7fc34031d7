package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/repositories"
	"github.com/orgball2608/social-feed/pkg/logger"
)

var selectColumns = []string{
	"sp.id", "sp.user_id", "COALESCE(sp.wallet_address, u.wallet_address)", "sp.platform_name", "sp.platform_username",
	"sp.is_connected", "sp.last_sync_at", "sp.created_at", "sp.updated_at",
}

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("PlatformRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, p domain.Platform) (*domain.Platform, error) {
	query, args, err := repositories.SqBuilder.
		Insert("social_platforms").
		Columns("user_id", "wallet_address", "platform_name", "platform_username", "is_connected").
		Values(p.UserID, p.WalletAddress, p.PlatformName, p.PlatformUsername, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert platform: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *PgxRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Platform, error) {
	query, args, err := r.selectBuilder().
		Where(sq.Eq{"sp.id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	p, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PgxRepository) List(ctx context.Context, filter domain.PlatformFilter) ([]*domain.Platform, error) {
	b := r.selectBuilder().OrderBy("sp.created_at DESC", "sp.id")
	if filter.UserID != nil {
		b = b.Where(sq.Eq{"sp.user_id": *filter.UserID})
	}
	if filter.WalletAddress != "" {
		b = b.Where(sq.Eq{"u.wallet_address": filter.WalletAddress})
	}
	if filter.ConnectedOnly {
		b = b.Where(sq.Eq{"sp.is_connected": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return r.query(ctx, query, args...)
}

func (r *PgxRepository) ListConnected(ctx context.Context) ([]*domain.Platform, error) {
	query, args, err := r.selectBuilder().
		Where(sq.Eq{"sp.is_connected": true}).
		OrderBy("sp.created_at", "sp.id").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return r.query(ctx, query, args...)
}

// FindOrCreate looks the identity up by (user, name, username) and inserts it
// when missing. A concurrent insert of the same identity is resolved by re-reading.
func (r *PgxRepository) FindOrCreate(ctx context.Context, p domain.Platform) (*domain.Platform, error) {
	found, err := r.findIdentity(ctx, p)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := r.Create(ctx, p)
	if errors.Is(err, ErrAlreadyExists) {
		return r.findIdentity(ctx, p)
	}
	return created, err
}

func (r *PgxRepository) UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]any{"last_sync_at": at.UTC()})
}

func (r *PgxRepository) SetConnected(ctx context.Context, id uuid.UUID, connected bool) error {
	return r.update(ctx, id, map[string]any{"is_connected": connected})
}

func (r *PgxRepository) update(ctx context.Context, id uuid.UUID, set map[string]any) error {
	set["updated_at"] = time.Now().UTC()

	query, args, err := repositories.SqBuilder.
		Update("social_platforms").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update platform %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgxRepository) findIdentity(ctx context.Context, p domain.Platform) (*domain.Platform, error) {
	query, args, err := r.selectBuilder().
		Where(sq.Eq{"sp.user_id": p.UserID, "sp.platform_name": p.PlatformName}).
		Where(sq.Expr("COALESCE(sp.platform_username, '') = ?", p.Username())).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	found, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return found, nil
}

func (r *PgxRepository) selectBuilder() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select(selectColumns...).
		From("social_platforms sp").
		LeftJoin("web3_users u ON u.id = sp.user_id")
}

func (r *PgxRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Platform, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var platforms []*domain.Platform
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return platforms, nil
}

func scan(row pgx.Row) (*domain.Platform, error) {
	var p domain.Platform
	err := row.Scan(
		&p.ID, &p.UserID, &p.WalletAddress, &p.PlatformName, &p.PlatformUsername,
		&p.IsConnected, &p.LastSyncAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
