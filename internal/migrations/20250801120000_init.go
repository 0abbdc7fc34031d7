package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS web3_users (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		wallet_address TEXT NOT NULL UNIQUE,
		chain_id       INTEGER NOT NULL DEFAULT 1,
		wallet_type    TEXT NOT NULL DEFAULT 'metamask',
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS social_platforms (
		id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id           UUID NOT NULL REFERENCES web3_users (id) ON DELETE CASCADE,
		wallet_address    TEXT,
		platform_name     TEXT NOT NULL,
		platform_username TEXT,
		is_connected      BOOLEAN NOT NULL DEFAULT TRUE,
		last_sync_at      TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS social_platforms_identity_key
		ON social_platforms (user_id, platform_name, COALESCE(platform_username, ''));

	CREATE TABLE IF NOT EXISTS social_posts (
		id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		platform_id        UUID NOT NULL REFERENCES social_platforms (id) ON DELETE CASCADE,
		platform_post_id   TEXT NOT NULL,
		content            TEXT,
		media_urls         JSONB NOT NULL DEFAULT '[]'::jsonb,
		engagement_metrics JSONB NOT NULL DEFAULT '{}'::jsonb,
		posted_at          TIMESTAMPTZ,
		fetched_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT social_posts_platform_post_key UNIQUE (platform_id, platform_post_id)
	);
	`)
	return err
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE IF EXISTS social_posts;
	DROP TABLE IF EXISTS social_platforms;
	DROP TABLE IF EXISTS web3_users;
	`)
	return err
}
