// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/swipewear/internal/config"
)

// Backing is an opened signal store.
type Backing struct {
	Store   Store
	Backend string
	// Ping probes a remote backend; nil for embedded ones.
	Ping  func(ctx context.Context) error
	Close func() error
}

// Open opens the backend named by cfg.Backend. The duckdb backend returns
// duck itself, whose lifetime stays with the caller.
func Open(ctx context.Context, cfg *config.SignalsConfig, duck Store) (*Backing, error) {
	switch cfg.Backend {
	case "", BackendDuckDB:
		return &Backing{Store: duck, Backend: BackendDuckDB, Close: func() error { return nil }}, nil

	case BackendRedis:
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rs, err := NewRedisStore(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect redis signal store: %w", err)
		}
		return &Backing{Store: rs, Backend: BackendRedis, Ping: rs.Ping, Close: rs.Close}, nil

	case BackendBadger:
		db, err := OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return &Backing{Store: NewBadgerStore(db), Backend: BackendBadger, Close: db.Close}, nil
	}
	return nil, fmt.Errorf("unknown signals backend %q", cfg.Backend)
}
