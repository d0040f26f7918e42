// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

const (
	defaultSimilarK = 10
	maxSimilarK     = 100
)

// itemDetail omits the raw embeddings from the item payload.
type itemDetail struct {
	models.Item
	Embedding         []float32 `json:"embedding,omitempty"`
	DetailedEmbedding []float32 `json:"detailed_embedding,omitempty"`
	HasEmbedding      bool      `json:"has_embedding"`
}

type outfitDetail struct {
	ID    string               `json:"id"`
	Name  string               `json:"name"`
	Items []models.ItemSummary `json:"items"`
}

// notFoundOrUnavailable passes not-found errors through and wraps anything
// else as a store failure.
func notFoundOrUnavailable(op string, err error) error {
	if errors.Is(err, feed.ErrNotFound) {
		return err
	}
	return &feed.Error{Op: op, Kind: feed.ErrServiceUnavailable, Err: err}
}

// GetItem serves GET /api/v1/items/{itemID}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	item, err := h.catalog.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		respondFeedError(w, notFoundOrUnavailable("get item", err))
		return
	}
	if item.Categories == nil {
		item.Categories = []string{}
	}

	respondSuccess(w, http.StatusOK, itemDetail{
		Item:         *item,
		HasEmbedding: len(item.Embedding) > 0,
	}, start)
}

// SimilarItems serves GET /api/v1/items/{itemID}/similar?k=N. It is a plain
// nearest-neighbour lookup with no user exclusions.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	itemID := chi.URLParam(r, "itemID")

	k, err := getIntParam(r, "k", defaultSimilarK)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if k < 1 || k > maxSimilarK {
		badRequest(w, fmt.Sprintf("k must be between 1 and %d", maxSimilarK))
		return
	}
	var filter feed.CategorySet
	if cats := queryList(r, "category_ids"); len(cats) > 0 {
		for _, c := range cats {
			if !feed.ValidCategoryID(c) {
				badRequest(w, fmt.Sprintf("malformed category id %q", c))
				return
			}
		}
		filter = feed.NewCategorySet(cats...)
	}

	if _, err := h.catalog.GetItem(r.Context(), itemID); err != nil {
		respondFeedError(w, notFoundOrUnavailable("similar items", err))
		return
	}
	if h.index == nil {
		respondFeedError(w, &feed.Error{Op: "similar items", Kind: feed.ErrServiceUnavailable, Err: errors.New("no embedding index configured")})
		return
	}

	ids, err := h.index.KNN(r.Context(), itemID, k, nil, filter)
	if err != nil {
		respondFeedError(w, &feed.Error{Op: "similar items", Kind: feed.ErrServiceUnavailable, Err: err})
		return
	}
	items, err := h.hydrate(r.Context(), ids)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, items, start)
}

// ListCategories serves GET /api/v1/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cats, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondFeedError(w, notFoundOrUnavailable("list categories", err))
		return
	}
	respondSuccess(w, http.StatusOK, cats, start)
}

// GetCategory serves GET /api/v1/categories/{categoryID}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "categoryID")
	if !feed.ValidCategoryID(id) {
		badRequest(w, fmt.Sprintf("malformed category id %q", id))
		return
	}
	cat, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		respondFeedError(w, notFoundOrUnavailable("get category", err))
		return
	}
	respondSuccess(w, http.StatusOK, cat, start)
}

// GetOutfit serves GET /api/v1/outfits/{outfitID} with the outfit's items
// in display order.
func (h *Handler) GetOutfit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outfit, err := h.catalog.GetOutfit(r.Context(), chi.URLParam(r, "outfitID"))
	if err != nil {
		respondFeedError(w, notFoundOrUnavailable("get outfit", err))
		return
	}
	items, err := h.hydrate(r.Context(), outfit.ItemIDs)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, outfitDetail{ID: outfit.ID, Name: outfit.Name, Items: items}, start)
}
