// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package index

import (
	"container/heap"
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// Entry is one indexed item.
type Entry struct {
	ID         string
	Seq        int64
	Vector     []float32
	Categories []string
}

// EntryFromItem picks the coarse or detailed embedding of item. It reports
// false when the chosen embedding is missing, in which case the item must not
// be indexed.
func EntryFromItem(item *models.Item, detailed bool) (Entry, bool) {
	vec := item.Embedding
	if detailed {
		vec = item.DetailedEmbedding
	}
	if len(vec) == 0 {
		return Entry{}, false
	}
	return Entry{
		ID:         item.ID,
		Seq:        item.Seq,
		Vector:     vec,
		Categories: item.Categories,
	}, true
}

// Flat is a brute-force Euclidean kNN index. It is safe for concurrent use.
type Flat struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewFlat creates an empty index.
func NewFlat() *Flat {
	return &Flat{entries: make(map[string]*Entry)}
}

// Upsert adds or replaces an entry. An entry without a vector removes the
// item instead.
//
//nolint:gocritic // hugeParam: entry copied into the index
func (f *Flat) Upsert(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(e.Vector) == 0 {
		delete(f.entries, e.ID)
		return
	}
	f.entries[e.ID] = &e
}

// Delete removes an item.
func (f *Flat) Delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
}

// Replace swaps the whole index contents.
func (f *Flat) Replace(entries []Entry) {
	next := make(map[string]*Entry, len(entries))
	for i := range entries {
		if len(entries[i].Vector) == 0 {
			continue
		}
		e := entries[i]
		next[e.ID] = &e
	}

	f.mu.Lock()
	f.entries = next
	f.mu.Unlock()
}

// Len returns the number of indexed items.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// KNN implements feed.EmbeddingIndex.
func (f *Flat) KNN(ctx context.Context, seed string, k int, exclude feed.ItemSet, filter feed.CategorySet) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	origin, ok := f.entries[seed]
	if !ok {
		return []string{}, nil
	}

	h := make(maxHeap, 0, k)
	scanned := 0
	for id, e := range f.entries {
		if id == seed || exclude.Has(id) || !filter.Matches(e.Categories) {
			continue
		}
		if len(e.Vector) != len(origin.Vector) {
			continue
		}

		// Check for cancellation periodically on large catalogs.
		scanned++
		if scanned%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		c := candidate{id: id, seq: e.Seq, dist: squaredDistance(origin.Vector, e.Vector)}
		if h.Len() < k {
			heap.Push(&h, c)
			continue
		}
		if c.before(h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	sort.Slice(h, func(i, j int) bool { return h[i].before(h[j]) })

	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.id
	}
	return out, nil
}

// squaredDistance orders identically to Euclidean distance.
func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

type candidate struct {
	id   string
	seq  int64
	dist float64
}

// before reports whether c ranks ahead of o: nearer first, then lower seq.
func (c candidate) before(o candidate) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	return c.seq < o.seq
}

// maxHeap keeps the worst retained candidate at the root.
type maxHeap []candidate

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[j].before(h[i]) }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

var _ feed.EmbeddingIndex = (*Flat)(nil)
