// Package database builds the service schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
// Every statement is idempotent.
func (tc *TableCreator) CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		avatar_url TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS revoked_sessions (
		token_id TEXT PRIMARY KEY,
		expires_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS content (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		file_url TEXT NOT NULL,
		cover_image_url TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		likes INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS content_likes (
		user_id TEXT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		content_id TEXT NOT NULL REFERENCES content(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, content_id)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		image_url TEXT,
		content_id TEXT REFERENCES content(id) ON DELETE SET NULL,
		likes_count INTEGER NOT NULL DEFAULT 0,
		comments_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_likes (
		user_id TEXT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, post_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		subtype TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		price_cents INTEGER NOT NULL,
		cover_image_url TEXT NOT NULL DEFAULT '',
		vendor_product_id TEXT NOT NULL DEFAULT '',
		vendor_shop_id TEXT NOT NULL DEFAULT '',
		digital_asset_path TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_content_active_created ON content(is_active, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_content_likes_content ON content_likes(content_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_post_likes_post ON post_likes(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_author ON comments(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_active_created ON products(is_active, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_revoked_sessions_expires ON revoked_sessions(expires_at)`,
}
