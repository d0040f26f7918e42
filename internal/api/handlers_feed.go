// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/models"
)

// personalizedFeedRequest is shared by the GET and POST forms. Nil Limit and
// Weighted take the configured defaults.
type personalizedFeedRequest struct {
	UserID      string   `json:"user_id" validate:"required,max=128,printascii"`
	CategoryIDs []string `json:"category_ids" validate:"max=50,dive,category_id"`
	Limit       *int     `json:"limit" validate:"omitempty,min=1"`
	Weighted    *bool    `json:"weighted"`
}

type categoryFeedRequest struct {
	CategoryID string `json:"category_id" validate:"omitempty,category_id"`
	Limit      int    `json:"limit" validate:"min=1"`
}

// PersonalizedFeed serves GET /api/v1/items/personalized-feed.
//
// Query parameters: user_id (required), category_ids (repeated or comma
// separated), limit (1..max_limit) and weighted (bool).
func (h *Handler) PersonalizedFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := personalizedFeedRequest{
		UserID:      r.URL.Query().Get("user_id"),
		CategoryIDs: queryList(r, "category_ids"),
	}
	if r.URL.Query().Has("limit") {
		limit, err := getIntParam(r, "limit", h.feedCfg.DefaultLimit)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		req.Limit = &limit
	}
	if r.URL.Query().Has("weighted") {
		weighted, err := getBoolParam(r, "weighted", h.feedCfg.WeightedDefault)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		req.Weighted = &weighted
	}

	h.servePersonalizedFeed(w, r, &req, start)
}

// PersonalizedFeedPost serves POST /api/v1/items/personalized-feed with a
// JSON body {user_id, category_ids, limit, weighted}.
func (h *Handler) PersonalizedFeedPost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req personalizedFeedRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.servePersonalizedFeed(w, r, &req, start)
}

func (h *Handler) servePersonalizedFeed(w http.ResponseWriter, r *http.Request, req *personalizedFeedRequest, start time.Time) {
	if apiErr := validateRequest(req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if !h.authorize(w, r, req.UserID) {
		return
	}

	limit := h.feedCfg.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit > h.feedCfg.MaxLimit {
		badRequest(w, fmt.Sprintf("limit must be at most %d", h.feedCfg.MaxLimit))
		return
	}
	weighted := h.feedCfg.WeightedDefault
	if req.Weighted != nil {
		weighted = *req.Weighted
	}

	ctx := r.Context()
	if h.feedCfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.feedCfg.RequestTimeout)
		defer cancel()
	}

	result, err := h.assembler.Assemble(ctx, feed.Request{
		UserID:     req.UserID,
		Categories: feed.NewCategorySet(req.CategoryIDs...),
		Limit:      limit,
		Weighted:   weighted,
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("user_id", sanitizeLogValue(req.UserID)).Msg("Feed assembly failed")
		respondFeedError(w, err)
		return
	}

	items, err := h.hydrate(ctx, result.Items)
	if err != nil {
		respondFeedError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   items,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Feed: &models.FeedMetadata{
				Requested:        limit,
				Returned:         len(items),
				Seeds:            result.SeedCount,
				SimilarityItems:  result.SimilarityCount,
				ExplorationItems: result.ExplorationCount,
				DegradedSeeds:    result.DegradedSeeds,
				Partial:          result.Partial,
				Weighted:         weighted,
			},
		},
	})
}

// CategoryFeed serves GET /api/v1/items/feed: random items, optionally from
// one category. It is not personalized and needs no user.
func (h *Handler) CategoryFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", h.feedCfg.DefaultLimit)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	req := categoryFeedRequest{
		CategoryID: r.URL.Query().Get("category_id"),
		Limit:      limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Limit > h.feedCfg.MaxLimit {
		badRequest(w, fmt.Sprintf("limit must be at most %d", h.feedCfg.MaxLimit))
		return
	}

	items, err := h.catalog.CategoryFeed(r.Context(), req.CategoryID, req.Limit)
	if err != nil {
		respondFeedError(w, &feed.Error{Op: "category feed", Kind: feed.ErrServiceUnavailable, Err: err})
		return
	}
	respondSuccess(w, http.StatusOK, items, start)
}
