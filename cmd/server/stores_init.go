// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package main

import (
	"context"

	"github.com/tomtom215/swipewear/internal/api"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/database"
	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/signals"
)

// signalStore is the configured signal backend plus its cleanup and an
// optional readiness probe.
type signalStore struct {
	store   signals.Store
	backend string
	check   *api.ReadinessCheck
	close   func() error
}

// initSignalStore opens the signal backend named by signals.backend. The
// duckdb backend shares the catalog database.
func initSignalStore(ctx context.Context, cfg *config.SignalsConfig, db *database.DB) (*signalStore, error) {
	b, err := signals.Open(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	s := &signalStore{store: b.Store, backend: b.Backend, close: b.Close}
	if b.Ping != nil {
		s.check = &api.ReadinessCheck{Name: b.Backend, Check: b.Ping}
	}

	switch b.Backend {
	case signals.BackendRedis:
		logging.Info().Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Msg("Signals stored in Redis")
	case signals.BackendBadger:
		logging.Info().Str("path", cfg.BadgerPath).Msg("Signals stored in BadgerDB")
	default:
		logging.Info().Msg("Signals stored in DuckDB")
	}
	return s, nil
}
