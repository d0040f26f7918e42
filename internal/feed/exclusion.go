// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

// unionSets returns a new set holding every id of the given sets.
func unionSets(sets ...ItemSet) ItemSet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make(ItemSet, n)
	for _, s := range sets {
		for id := range s {
			out[id] = struct{}{}
		}
	}
	return out
}

// appendUnique appends ids not yet in seen, in order, recording them in
// seen. Earlier occurrences win.
func appendUnique(dst []string, seen ItemSet, ids []string) []string {
	for _, id := range ids {
		if seen.Add(id) {
			dst = append(dst, id)
		}
	}
	return dst
}

// dropExcluded filters out ids in exclude, preserving order.
func dropExcluded(ids []string, exclude ItemSet) []string {
	if len(exclude) == 0 {
		return ids
	}
	out := ids[:0:0]
	for _, id := range ids {
		if !exclude.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// truncate caps ids at n.
func truncate(ids []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}
