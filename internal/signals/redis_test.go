// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"testing"
	"time"
)

func TestScoreRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []time.Time{
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 123456000, time.UTC),
		time.Unix(0, 0).UTC(),
	}
	for _, at := range tests {
		if got := fromScore(toScore(at)); !got.Equal(at) {
			t.Errorf("fromScore(toScore(%v)) = %v", at, got)
		}
	}
}

func TestRedisKeys(t *testing.T) {
	t.Parallel()

	s := NewRedisStoreWithClient(nil, "")
	if got := s.prefsKey("u1"); got != "swipewear:prefs:u1" {
		t.Errorf("prefsKey = %q", got)
	}
	if got := s.closetKey("u1"); got != "swipewear:closet:u1" {
		t.Errorf("closetKey = %q", got)
	}
	if got := s.dislikesKey("u1"); got != "swipewear:dislikes:u1" {
		t.Errorf("dislikesKey = %q", got)
	}
}
