// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/swipewear/internal/models"
)

// CreateUser registers a user. Creating an existing id is a no-op that
// reports false.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (created bool, err error) {
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return false, errors.New("user id is required")
	}
	username := u.Username
	if username == "" {
		username = u.ID
	}
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("insert", "users", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		u.ID, username, createdAt)
	if err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", u.ID, err)
	}
	return rowsChanged(res)
}

// UserExists implements the feed's user resolver.
func (db *DB) UserExists(ctx context.Context, userID string) (exists bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "users", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	return exists, nil
}

// GetUser returns ErrUserNotFound for unknown ids.
func (db *DB) GetUser(ctx context.Context, userID string) (user *models.User, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "users", time.Now(), &err)

	var u models.User
	scanErr := db.conn.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`, userID).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if scanErr != nil {
		err = fmt.Errorf("failed to get user %s: %w", userID, scanErr)
		return nil, err
	}
	return &u, nil
}
