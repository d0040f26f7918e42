// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"context"
	"time"

	"github.com/tomtom215/swipewear/internal/auth"
	"github.com/tomtom215/swipewear/internal/cache"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// Catalog is the read side of the catalog store. *database.DB implements it.
type Catalog interface {
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ItemSummaries(ctx context.Context, ids []string) ([]models.ItemSummary, error)
	CategoryFeed(ctx context.Context, categoryID string, limit int) ([]models.ItemSummary, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetOutfit(ctx context.Context, id string) (*models.Outfit, error)
	Ping(ctx context.Context) error
}

// FeedAssembler builds personalized feeds. *feed.Assembler implements it.
type FeedAssembler interface {
	Assemble(ctx context.Context, req feed.Request) (*feed.Result, error)
}

// SignalService records likes and dislikes. *signals.Service implements it.
type SignalService interface {
	Like(ctx context.Context, userID, itemID string) (bool, error)
	Unlike(ctx context.Context, userID, itemID string) (bool, error)
	HideFromCloset(ctx context.Context, userID, itemID string) (bool, error)
	Dislike(ctx context.Context, userID, itemID string) (bool, error)
	Closet(ctx context.Context, userID string) ([]string, error)
	Dislikes(ctx context.Context, userID string) ([]string, error)
}

// ReadinessCheck is an extra dependency probed by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandlerDeps bundles the handler's collaborators. Index may be nil, in
// which case similar-item lookups answer 503.
type HandlerDeps struct {
	Catalog   Catalog
	Assembler FeedAssembler
	Signals   SignalService
	Index     feed.EmbeddingIndex
	Auth      *auth.Middleware
	Feed      *config.FeedConfig
	Checks    []ReadinessCheck
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_feed.go: personalized and category feeds
//   - handlers_catalog.go: items, similar items, categories and outfits
//   - handlers_signals.go: likes, closet and dislikes
//   - handlers_health.go: liveness and readiness
type Handler struct {
	catalog   Catalog
	assembler FeedAssembler
	signals   SignalService
	index     feed.EmbeddingIndex
	auth      *auth.Middleware
	feedCfg   config.FeedConfig
	checks    []ReadinessCheck
	summaries *cache.LRU[string, models.ItemSummary]
	startTime time.Time
}

// NewHandler creates the API handler. Feed settings default to the
// assembler's defaults when deps.Feed is nil.
func NewHandler(deps HandlerDeps) *Handler {
	feedCfg := config.FeedConfig{
		DefaultLimit:     10,
		MaxLimit:         100,
		WeightedDefault:  true,
		RequestTimeout:   10 * time.Second,
		SummaryCacheSize: 4096,
		SummaryCacheTTL:  10 * time.Minute,
	}
	if deps.Feed != nil {
		feedCfg = *deps.Feed
	}
	authMiddleware := deps.Auth
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil, auth.ModeNone)
	}

	return &Handler{
		catalog:   deps.Catalog,
		assembler: deps.Assembler,
		signals:   deps.Signals,
		index:     deps.Index,
		auth:      authMiddleware,
		feedCfg:   feedCfg,
		checks:    deps.Checks,
		summaries: cache.NewLRU[string, models.ItemSummary]("item_summary", feedCfg.SummaryCacheSize, feedCfg.SummaryCacheTTL),
		startTime: time.Now(),
	}
}

// InvalidateItems drops cached summaries after catalog changes.
func (h *Handler) InvalidateItems(ids ...string) {
	for _, id := range ids {
		h.summaries.Remove(id)
	}
}

// hydrate resolves ids to summaries in the given order. Ids missing from the
// catalog are skipped.
func (h *Handler) hydrate(ctx context.Context, ids []string) ([]models.ItemSummary, error) {
	out := make([]models.ItemSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found := make(map[string]models.ItemSummary, len(ids))
	var misses []string
	for _, id := range ids {
		if s, ok := h.summaries.Get(id); ok {
			found[id] = s
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		loaded, err := h.catalog.ItemSummaries(ctx, misses)
		if err != nil {
			return nil, &feed.Error{Op: "hydrate", Kind: feed.ErrServiceUnavailable, Err: err}
		}
		for _, s := range loaded {
			found[s.ID] = s
			h.summaries.Add(s.ID, s)
		}
	}

	for _, id := range ids {
		if s, ok := found[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
