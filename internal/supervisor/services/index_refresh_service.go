// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// IndexRefresher rebuilds the in-process vector index from the catalog and
// returns the number of indexed items.
type IndexRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// IndexRefreshConfig configures IndexRefreshService.
type IndexRefreshConfig struct {
	// RefreshOnStartup rebuilds as soon as the service starts.
	RefreshOnStartup bool

	// Interval between rebuilds. Non-positive means 5 minutes.
	Interval time.Duration

	// Timeout bounds a single rebuild. Non-positive means 2 minutes.
	Timeout time.Duration
}

// IndexRefreshService periodically rebuilds the vector index so that
// embeddings backfilled outside the event stream become searchable.
type IndexRefreshService struct {
	refresher IndexRefresher
	config    IndexRefreshConfig
	logger    zerolog.Logger
	name      string
}

// NewIndexRefreshService creates the service.
func NewIndexRefreshService(refresher IndexRefresher, cfg IndexRefreshConfig, logger zerolog.Logger) *IndexRefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &IndexRefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "index_refresh").Logger(),
		name:      "index-refresh",
	}
}

// Serve implements suture.Service. A failed rebuild keeps the previous
// index and is retried on the next tick.
func (s *IndexRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("index refresh service starting")

	if s.config.RefreshOnStartup {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *IndexRefreshService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.refresher.Refresh(refreshCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("index refresh failed, keeping previous index")
		return
	}
	s.logger.Debug().Int("entries", n).Dur("duration", time.Since(start)).Msg("index refreshed")
}

func (s *IndexRefreshService) String() string {
	return s.name
}
