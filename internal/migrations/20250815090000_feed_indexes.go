package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upFeedIndexes, downFeedIndexes)
}

func upFeedIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE INDEX IF NOT EXISTS social_posts_posted_at_idx
		ON social_posts (posted_at DESC NULLS LAST, fetched_at DESC);
	CREATE INDEX IF NOT EXISTS social_platforms_user_id_idx
		ON social_platforms (user_id);
	CREATE INDEX IF NOT EXISTS social_platforms_connected_idx
		ON social_platforms (created_at) WHERE is_connected;
	`)
	return err
}

func downFeedIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP INDEX IF EXISTS social_platforms_connected_idx;
	DROP INDEX IF EXISTS social_platforms_user_id_idx;
	DROP INDEX IF EXISTS social_posts_posted_at_idx;
	`)
	return err
}
