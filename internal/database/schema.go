// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"fmt"
)

// Schema notes:
//   - items.seq is the catalog insertion sequence used to break kNN ties. It
//     is assigned once from item_seq and never changes on re-import.
//   - Embeddings are FLOAT[] and may be NULL.
//   - There are no foreign keys. DuckDB rejects updates to rows referenced by
//     a foreign key, which would break item upserts; referential cleanup is
//     done explicitly in DeleteItem.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS item_seq START 1`,

	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL DEFAULT nextval('item_seq'),
		name TEXT NOT NULL,
		image_url_suffix TEXT,
		product_detail_url TEXT,
		designer_name TEXT,
		price TEXT,
		color TEXT,
		embedding FLOAT[],
		detailed_embedding FLOAT[],
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS item_category (
		item_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		PRIMARY KEY (item_id, category_id)
	)`,

	`CREATE TABLE IF NOT EXISTS outfits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS item_outfit (
		outfit_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (outfit_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// One row per (user, item). show_in_closet is the closet overlay.
	`CREATE TABLE IF NOT EXISTS user_like_items (
		user_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		set_at TIMESTAMP NOT NULL,
		show_in_closet BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (user_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_dislike_items (
		user_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, item_id)
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_item_category_category ON item_category(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_outfit_item ON item_outfit(item_id)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
