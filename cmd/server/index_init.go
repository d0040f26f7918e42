// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package main

import (
	"fmt"

	"github.com/tomtom215/swipewear/internal/api"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/index"
	"github.com/tomtom215/swipewear/internal/logging"
)

// indexComponents holds the serving index and, for the flat backend, the
// in-process index the refresher and the catalog consumer write to.
type indexComponents struct {
	serving   feed.EmbeddingIndex
	flat      *index.Flat
	refresher *index.Refresher
	check     *api.ReadinessCheck
	close     func() error
}

// initIndex builds the embedding index named by index.backend. Every
// backend is wrapped in a circuit breaker.
func initIndex(cfg *config.IndexConfig, source index.ItemSource) (*indexComponents, error) {
	breakerCfg := index.BreakerConfig{
		Name:        "embedding-index",
		MaxFailures: cfg.BreakerMaxFailures,
		Timeout:     cfg.BreakerTimeout,
	}

	switch cfg.Backend {
	case "", "flat":
		flat := index.NewFlat()
		logging.Info().Str("embedding", cfg.Embedding).Dur("refresh_interval", cfg.RefreshInterval).Msg("Using in-process flat index")
		return &indexComponents{
			serving:   index.NewBreaker(flat, breakerCfg),
			flat:      flat,
			refresher: index.NewRefresher(source, flat, cfg.Detailed()),
			close:     func() error { return nil },
		}, nil

	case "qdrant":
		q, err := index.NewQdrant(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
		if err != nil {
			return nil, err
		}
		logging.Info().
			Str("host", cfg.QdrantHost).
			Int("port", cfg.QdrantPort).
			Str("collection", cfg.QdrantCollection).
			Msg("Using Qdrant index")
		return &indexComponents{
			serving: index.NewBreaker(q, breakerCfg),
			check:   &api.ReadinessCheck{Name: "qdrant", Check: q.Ping},
			close:   q.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
}
