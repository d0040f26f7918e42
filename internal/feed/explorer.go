// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"context"
)

// Explorer tops a feed up with random unseen catalog items.
type Explorer struct {
	catalog  CatalogStore
	prefs    PreferenceStore
	dislikes DislikeStore
}

// NewExplorer creates an explorer.
func NewExplorer(catalog CatalogStore, prefs PreferenceStore, dislikes DislikeStore) *Explorer {
	return &Explorer{catalog: catalog, prefs: prefs, dislikes: dislikes}
}

// Fill returns up to limit random catalog items the user has neither liked
// nor disliked, that are not in exclude and that pass filter.
func (e *Explorer) Fill(ctx context.Context, userID string, filter CategorySet, limit int, exclude ItemSet) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	disliked, err := e.dislikes.DislikedSet(ctx, userID)
	if err != nil {
		return nil, newError("explore", ErrRetrievalUnavailable, err)
	}
	preferred, err := e.prefs.PreferredSet(ctx, userID)
	if err != nil {
		return nil, newError("explore", ErrRetrievalUnavailable, err)
	}

	return e.FillExcluding(ctx, filter, limit, unionSets(disliked, preferred, exclude))
}

// FillExcluding is Fill with the complete exclusion set already resolved.
func (e *Explorer) FillExcluding(ctx context.Context, filter CategorySet, limit int, exclude ItemSet) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	ids, err := e.catalog.RandomSample(ctx, exclude, filter, limit)
	if err != nil {
		return nil, newError("explore", ErrRetrievalUnavailable, err)
	}
	return truncate(dropExcluded(ids, exclude), limit), nil
}
