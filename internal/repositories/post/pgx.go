package post

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/repositories"
	"github.com/orgball2608/social-feed/pkg/logger"
)

// upsertChunk keeps a single INSERT well below the postgres bind parameter limit.
const upsertChunk = 500

const (
	onConflictIgnore = "ON CONFLICT (platform_id, platform_post_id) DO NOTHING"
	onConflictUpdate = "ON CONFLICT (platform_id, platform_post_id) DO UPDATE SET " +
		"content = EXCLUDED.content, " +
		"media_urls = EXCLUDED.media_urls, " +
		"engagement_metrics = EXCLUDED.engagement_metrics, " +
		"posted_at = EXCLUDED.posted_at, " +
		"fetched_at = EXCLUDED.fetched_at"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Upsert(ctx context.Context, posts []domain.Post, mode domain.ConflictMode) (int64, error) {
	posts = lastByKey(posts)

	var stored int64
	for start := 0; start < len(posts); start += upsertChunk {
		end := min(start+upsertChunk, len(posts))

		query, args, err := buildUpsert(posts[start:end], mode)
		if err != nil {
			return stored, err
		}

		tag, err := p.pg.Exec(ctx, query, args...)
		if err != nil {
			return stored, fmt.Errorf("failed to upsert posts: %w", err)
		}
		stored += tag.RowsAffected()
	}

	p.logger.Debug("Posts upserted", "received", len(posts), "stored", stored)
	return stored, nil
}

func (p *Pgx) Feed(ctx context.Context, filter domain.FeedFilter) ([]*domain.FeedPost, error) {
	query, args, err := buildFeed(filter)
	if err != nil {
		return nil, err
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*domain.FeedPost, 0)
	for rows.Next() {
		var (
			fp      domain.FeedPost
			media   []byte
			metrics []byte
		)
		if err := rows.Scan(
			&fp.ID, &fp.PlatformID, &fp.PlatformPostID, &fp.Content, &media, &metrics,
			&fp.PostedAt, &fp.FetchedAt,
			&fp.Platform.PlatformName, &fp.Platform.PlatformUsername, &fp.Platform.UserID,
		); err != nil {
			return nil, err
		}
		if len(media) > 0 {
			if err := json.Unmarshal(media, &fp.MediaURLs); err != nil {
				return nil, fmt.Errorf("decode media_urls of post %s: %w", fp.ID, err)
			}
		}
		if len(metrics) > 0 {
			if err := json.Unmarshal(metrics, &fp.EngagementMetrics); err != nil {
				return nil, fmt.Errorf("decode engagement_metrics of post %s: %w", fp.ID, err)
			}
		}
		fp.EnsureCollections()
		posts = append(posts, &fp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func buildUpsert(posts []domain.Post, mode domain.ConflictMode) (string, []any, error) {
	b := repositories.SqBuilder.
		Insert("social_posts").
		Columns("platform_id", "platform_post_id", "content", "media_urls", "engagement_metrics", "posted_at", "fetched_at")

	for _, post := range posts {
		post.EnsureCollections()

		media, err := json.Marshal(post.MediaURLs)
		if err != nil {
			return "", nil, fmt.Errorf("encode media_urls: %w", err)
		}
		metrics, err := json.Marshal(post.EngagementMetrics)
		if err != nil {
			return "", nil, fmt.Errorf("encode engagement_metrics: %w", err)
		}

		b = b.Values(post.PlatformID, post.PlatformPostID, post.Content, media, metrics, post.PostedAt, post.FetchedAt)
	}

	suffix := onConflictIgnore
	if mode == domain.ConflictUpdate {
		suffix = onConflictUpdate
	}

	query, args, err := b.Suffix(suffix).ToSql()
	if err != nil {
		return "", nil, repositories.ErrBadQuery
	}
	return query, args, nil
}

func buildFeed(filter domain.FeedFilter) (string, []any, error) {
	b := repositories.SqBuilder.
		Select(
			"p.id", "p.platform_id", "p.platform_post_id", "p.content", "p.media_urls", "p.engagement_metrics",
			"p.posted_at", "p.fetched_at",
			"sp.platform_name", "sp.platform_username", "sp.user_id",
		).
		From("social_posts p").
		Join("social_platforms sp ON sp.id = p.platform_id").
		OrderBy("p.posted_at DESC NULLS LAST", "p.fetched_at DESC").
		Limit(uint64(filter.EffectiveLimit()))

	if filter.UserID != nil {
		b = b.Where(sq.Eq{"sp.user_id": *filter.UserID})
	}
	if filter.WalletAddress != "" {
		b = b.Join("web3_users u ON u.id = sp.user_id").
			Where(sq.Eq{"u.wallet_address": filter.WalletAddress})
	}
	if filter.PlatformName != "" {
		b = b.Where(sq.Eq{"sp.platform_name": filter.PlatformName})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, repositories.ErrBadQuery
	}
	return query, args, nil
}

// lastByKey drops earlier duplicates of the same (platform, post id) so a
// single statement never touches one row twice. Order of first appearance is kept.
func lastByKey(posts []domain.Post) []domain.Post {
	type key struct {
		platform string
		post     string
	}

	index := make(map[key]int, len(posts))
	out := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		k := key{post.PlatformID.String(), post.PlatformPostID}
		if i, ok := index[k]; ok {
			out[i] = post
			continue
		}
		index[k] = len(out)
		out = append(out, post)
	}
	return out
}
