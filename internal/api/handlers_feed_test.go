// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"errors"
	"net/http"
	"reflect"
	"sort"
	"testing"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

func TestPersonalizedFeed_GET(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.assembler.result = &feed.Result{
		Items:            []string{"3", "1", "deleted-meanwhile"},
		SimilarityCount:  1,
		ExplorationCount: 2,
		SeedCount:        1,
		Partial:          true,
	}

	rec := env.do(t, http.MethodGet,
		"/api/v1/items/personalized-feed?user_id=u1&category_ids=DRESSES&category_ids=TOPS,JACKETS&limit=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	items := decodeData[[]models.ItemSummary](t, rec)
	if got := summaryIDs(items); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Errorf("items = %v, want [3 1]", got)
	}
	if items[0].Name != "Wrap Dress" || items[0].ImageURLSuffix != "3.jpg" {
		t.Errorf("summary not hydrated: %+v", items[0])
	}

	meta := decode(t, rec).Metadata.Feed
	if meta == nil {
		t.Fatal("feed metadata missing")
	}
	want := models.FeedMetadata{
		Requested: 3, Returned: 2, Seeds: 1,
		SimilarityItems: 1, ExplorationItems: 2, Partial: true, Weighted: true,
	}
	if *meta != want {
		t.Errorf("feed metadata = %+v, want %+v", *meta, want)
	}

	req := env.assembler.last(t)
	cats := req.Categories.Slice()
	sort.Strings(cats)
	if req.UserID != "u1" || req.Limit != 3 || !req.Weighted ||
		!reflect.DeepEqual(cats, []string{"DRESSES", "JACKETS", "TOPS"}) {
		t.Errorf("assembler request = %+v (categories %v)", req, cats)
	}
}

func TestPersonalizedFeed_Defaults(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/items/personalized-feed?user_id=u1&weighted=false", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	req := env.assembler.last(t)
	if req.Limit != 10 {
		t.Errorf("Limit = %d, want default 10", req.Limit)
	}
	if req.Weighted {
		t.Error("Weighted = true, want false from query")
	}
	if len(req.Categories) != 0 {
		t.Errorf("Categories = %v, want none", req.Categories)
	}
	if items := decodeData[[]models.ItemSummary](t, rec); len(items) != 0 {
		t.Errorf("items = %v, want empty array", items)
	}
}

func TestPersonalizedFeed_InvalidQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{"missing user", "limit=5"},
		{"zero limit", "user_id=u1&limit=0"},
		{"negative limit", "user_id=u1&limit=-3"},
		{"limit not a number", "user_id=u1&limit=ten"},
		{"limit above max", "user_id=u1&limit=101"},
		{"malformed category", "user_id=u1&category_ids=bad!id"},
		{"bad weighted flag", "user_id=u1&weighted=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec := env.do(t, http.MethodGet, "/api/v1/items/personalized-feed?"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}
			if code := decode(t, rec).Error.Code; code != "VALIDATION_ERROR" {
				t.Errorf("error code = %s", code)
			}
			env.assembler.mu.Lock()
			calls := len(env.assembler.got)
			env.assembler.mu.Unlock()
			if calls != 0 {
				t.Error("assembler called for an invalid request")
			}
		})
	}
}

func TestPersonalizedFeed_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unknown user", &feed.Error{Op: "assemble", Kind: feed.ErrNotFound, Err: errors.New("user u1")}, http.StatusNotFound, "NOT_FOUND"},
		{"invalid argument", &feed.Error{Op: "validate", Kind: feed.ErrInvalidArgument}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"all strategies failed", &feed.Error{Op: "assemble", Kind: feed.ErrServiceUnavailable}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.assembler.err = tt.err

			rec := env.do(t, http.MethodGet, "/api/v1/items/personalized-feed?user_id=u1", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			resp := decode(t, rec)
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestPersonalizedFeed_POST(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantCode     int
		wantLimit    int
		wantWeighted bool
	}{
		{"full body", `{"user_id":"u1","category_ids":["DRESSES"],"limit":5,"weighted":false}`, http.StatusOK, 5, false},
		{"defaults", `{"user_id":"u1"}`, http.StatusOK, 10, true},
		{"explicit zero limit", `{"user_id":"u1","limit":0}`, http.StatusBadRequest, 0, false},
		{"unknown field", `{"user_id":"u1","colour":"red"}`, http.StatusBadRequest, 0, false},
		{"malformed json", `{"user_id":`, http.StatusBadRequest, 0, false},
		{"empty body", "", http.StatusBadRequest, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/v1/items/personalized-feed", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			req := env.assembler.last(t)
			if req.Limit != tt.wantLimit || req.Weighted != tt.wantWeighted {
				t.Errorf("request = %+v, want limit %d weighted %v", req, tt.wantLimit, tt.wantWeighted)
			}
		})
	}
}

func TestPersonalizedFeed_SummaryCache(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.assembler.result = &feed.Result{Items: []string{"1", "2"}, ExplorationCount: 2}

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodGet, "/api/v1/items/personalized-feed?user_id=u1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if calls := env.catalog.calls(); len(calls) != 1 {
		t.Errorf("catalog hydrated %d times, want 1 (second served from cache): %v", len(calls), calls)
	}

	env.handler.InvalidateItems("2")
	env.do(t, http.MethodGet, "/api/v1/items/personalized-feed?user_id=u1", "")
	calls := env.catalog.calls()
	if len(calls) != 2 || !reflect.DeepEqual(calls[1], []string{"2"}) {
		t.Errorf("after invalidation calls = %v, want second call for [2]", calls)
	}
}

func TestPersonalizedFeed_HydrationFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.assembler.result = &feed.Result{Items: []string{"1"}}
	env.catalog.summaryErr = errors.New("duckdb gone")

	rec := env.do(t, http.MethodGet, "/api/v1/items/personalized-feed?user_id=u1", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCategoryFeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantLen  int
	}{
		{"category filter", "category_id=DRESSES&limit=5", http.StatusOK, 2},
		{"no filter", "limit=3", http.StatusOK, 3},
		{"default limit", "", http.StatusOK, 4},
		{"unknown category", "category_id=HATS", http.StatusOK, 0},
		{"zero limit", "limit=0", http.StatusBadRequest, 0},
		{"limit above max", "limit=500", http.StatusBadRequest, 0},
		{"malformed category", "category_id=no%20spaces", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec := env.do(t, http.MethodGet, "/api/v1/items/feed?"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			items := decodeData[[]models.ItemSummary](t, rec)
			if len(items) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(items), tt.wantLen)
			}
			if tt.name == "category filter" {
				for _, it := range items {
					if !feed.NewCategorySet("DRESSES").Matches(it.Categories) {
						t.Errorf("item %s outside DRESSES", it.ID)
					}
				}
			}
		})
	}
}
