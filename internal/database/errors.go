// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/metrics"
)

var (
	// ErrUserNotFound matches feed.ErrNotFound through errors.Is.
	ErrUserNotFound = fmt.Errorf("user not found: %w", feed.ErrNotFound)
	// ErrItemNotFound matches feed.ErrNotFound through errors.Is.
	ErrItemNotFound = fmt.Errorf("item not found: %w", feed.ErrNotFound)
	// ErrCategoryNotFound matches feed.ErrNotFound through errors.Is.
	ErrCategoryNotFound = fmt.Errorf("category not found: %w", feed.ErrNotFound)
	// ErrOutfitNotFound matches feed.ErrNotFound through errors.Is.
	ErrOutfitNotFound = fmt.Errorf("outfit not found: %w", feed.ErrNotFound)

	// ErrInvalidItem is returned for items that cannot be stored.
	ErrInvalidItem = errors.New("invalid item")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// observe records query latency and errors. Use as
//
//	defer observe("select", "items", time.Now(), &err)
func observe(operation, table string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}
