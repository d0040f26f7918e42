// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"context"
	"sort"

	"github.com/tomtom215/swipewear/internal/models"
)

// ItemSet is a set of item ids.
type ItemSet map[string]struct{}

// NewItemSet builds a set from ids.
func NewItemSet(ids ...string) ItemSet {
	s := make(ItemSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s ItemSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id and reports whether it was new.
func (s ItemSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Slice returns the ids in sorted order.
func (s ItemSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CategorySet is a set of category ids. An empty set means no restriction.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from ids.
func NewCategorySet(ids ...string) CategorySet {
	s := make(CategorySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s CategorySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Matches reports whether an item in the given categories passes the filter.
// An empty filter matches everything.
func (s CategorySet) Matches(categories []string) bool {
	if len(s) == 0 {
		return true
	}
	for _, c := range categories {
		if _, ok := s[c]; ok {
			return true
		}
	}
	return false
}

// Slice returns the ids in sorted order.
func (s CategorySet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// PreferenceStore reads a user's preference records.
type PreferenceStore interface {
	// ListPreferences returns every preference record for the user. An
	// unknown user has no records.
	ListPreferences(ctx context.Context, userID string) ([]models.PreferenceRecord, error)

	// PreferredSet returns the ids of every item the user prefers.
	PreferredSet(ctx context.Context, userID string) (ItemSet, error)
}

// DislikeStore reads a user's dislikes.
type DislikeStore interface {
	DislikedSet(ctx context.Context, userID string) (ItemSet, error)
}

// EmbeddingIndex answers nearest-neighbour queries over item embeddings.
//
// KNN returns at most k item ids ordered by ascending distance to the seed's
// embedding, ties broken by catalog insertion order. Items in exclude and the
// seed itself are never returned. When filter is non-empty only items in at
// least one of its categories are eligible. A seed without an embedding, or
// an unknown seed, yields an empty result and no error.
type EmbeddingIndex interface {
	KNN(ctx context.Context, seed string, k int, exclude ItemSet, filter CategorySet) ([]string, error)
}

// CatalogStore samples catalog items.
//
// RandomSample returns up to limit uniformly random item ids that are not in
// exclude and, when filter is non-empty, belong to at least one of its
// categories. A catalog with fewer eligible items returns fewer.
type CatalogStore interface {
	RandomSample(ctx context.Context, exclude ItemSet, filter CategorySet, limit int) ([]string, error)
}

// UserResolver checks user identities.
type UserResolver interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// Request describes one feed.
type Request struct {
	UserID     string
	Categories CategorySet
	Limit      int
	Weighted   bool
}

// Result is an assembled feed. Items holds the similarity block followed by
// the exploration block.
type Result struct {
	Items            []string
	SimilarityCount  int
	ExplorationCount int
	SeedCount        int
	DegradedSeeds    int
	Partial          bool
}
