// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"context"
	"errors"
)

// Retriever expands a seed into its nearest unseen neighbours.
type Retriever struct {
	index    EmbeddingIndex
	prefs    PreferenceStore
	dislikes DislikeStore
}

// NewRetriever creates a retriever.
func NewRetriever(index EmbeddingIndex, prefs PreferenceStore, dislikes DislikeStore) *Retriever {
	return &Retriever{index: index, prefs: prefs, dislikes: dislikes}
}

// Retrieve returns at most topK neighbours of seed, nearest first. The seed,
// the user's dislikes and the user's preferences are excluded before
// truncation. A seed without an embedding yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, seed, userID string, topK int, filter CategorySet) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}

	disliked, err := r.dislikes.DislikedSet(ctx, userID)
	if err != nil {
		return nil, newError("retrieve", ErrRetrievalUnavailable, err)
	}
	preferred, err := r.prefs.PreferredSet(ctx, userID)
	if err != nil {
		return nil, newError("retrieve", ErrRetrievalUnavailable, err)
	}

	return r.RetrieveExcluding(ctx, seed, topK, unionSets(disliked, preferred), filter)
}

// RetrieveExcluding is Retrieve with the user's exclusion set already
// resolved. The seed is always excluded.
func (r *Retriever) RetrieveExcluding(ctx context.Context, seed string, topK int, exclude ItemSet, filter CategorySet) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}

	if !exclude.Has(seed) {
		exclude = unionSets(exclude, NewItemSet(seed))
	}

	ids, err := r.index.KNN(ctx, seed, topK, exclude, filter)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, newError("retrieve", ErrRetrievalUnavailable, err)
	}

	// Indexes are trusted for ordering but not for exclusions.
	return truncate(dropExcluded(ids, exclude), topK), nil
}
