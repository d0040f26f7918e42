// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewear/internal/auth"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

type fakeCatalog struct {
	mu         sync.Mutex
	items      map[string]models.Item
	categories []models.Category
	outfits    map[string]models.Outfit
	pingErr    error
	summaryErr error
	// summaryCalls records the ids requested from ItemSummaries.
	summaryCalls [][]string
}

func newFakeCatalog(items ...models.Item) *fakeCatalog {
	c := &fakeCatalog{items: map[string]models.Item{}, outfits: map[string]models.Outfit{}}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

func (c *fakeCatalog) GetItem(_ context.Context, id string) (*models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return nil, &feed.Error{Op: "get item", Kind: feed.ErrNotFound}
	}
	return &it, nil
}

func (c *fakeCatalog) ItemSummaries(_ context.Context, ids []string) ([]models.ItemSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaryCalls = append(c.summaryCalls, append([]string(nil), ids...))
	if c.summaryErr != nil {
		return nil, c.summaryErr
	}
	out := []models.ItemSummary{}
	for _, id := range ids {
		if it, ok := c.items[id]; ok {
			out = append(out, it.Summary())
		}
	}
	return out, nil
}

func (c *fakeCatalog) CategoryFeed(_ context.Context, categoryID string, limit int) ([]models.ItemSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []models.ItemSummary{}
	for _, it := range c.items {
		if len(out) == limit {
			break
		}
		if categoryID == "" || feed.NewCategorySet(categoryID).Matches(it.Categories) {
			out = append(out, it.Summary())
		}
	}
	return out, nil
}

func (c *fakeCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return c.categories, nil
}

func (c *fakeCatalog) GetCategory(_ context.Context, id string) (*models.Category, error) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return &cat, nil
		}
	}
	return nil, &feed.Error{Op: "get category", Kind: feed.ErrNotFound}
}

func (c *fakeCatalog) GetOutfit(_ context.Context, id string) (*models.Outfit, error) {
	o, ok := c.outfits[id]
	if !ok {
		return nil, &feed.Error{Op: "get outfit", Kind: feed.ErrNotFound}
	}
	return &o, nil
}

func (c *fakeCatalog) Ping(context.Context) error { return c.pingErr }

func (c *fakeCatalog) calls() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryCalls
}

type fakeAssembler struct {
	mu     sync.Mutex
	result *feed.Result
	err    error
	got    []feed.Request
}

func (a *fakeAssembler) Assemble(_ context.Context, req feed.Request) (*feed.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, req)
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func (a *fakeAssembler) last(t *testing.T) feed.Request {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.got) == 0 {
		t.Fatal("assembler was not called")
	}
	return a.got[len(a.got)-1]
}

// fakeSignals keeps likes and dislikes in insertion order and reports
// unknown users as not found.
type fakeSignals struct {
	mu       sync.Mutex
	users    map[string]bool
	likes    map[string][]string
	hidden   map[string]bool
	dislikes map[string][]string
}

func newFakeSignals(users ...string) *fakeSignals {
	s := &fakeSignals{
		users:    map[string]bool{},
		likes:    map[string][]string{},
		hidden:   map[string]bool{},
		dislikes: map[string][]string{},
	}
	for _, u := range users {
		s.users[u] = true
	}
	return s
}

func (s *fakeSignals) check(userID string) error {
	if !s.users[userID] {
		return &feed.Error{Op: "signal", Kind: feed.ErrNotFound}
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *fakeSignals) Like(_ context.Context, userID, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(userID); err != nil {
		return false, err
	}
	if contains(s.likes[userID], itemID) {
		return false, nil
	}
	s.likes[userID] = append(s.likes[userID], itemID)
	return true, nil
}

func (s *fakeSignals) Unlike(_ context.Context, userID, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(userID); err != nil {
		return false, err
	}
	ids := s.likes[userID]
	for i, v := range ids {
		if v == itemID {
			s.likes[userID] = append(ids[:i:i], ids[i+1:]...)
			delete(s.hidden, userID+"/"+itemID)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSignals) HideFromCloset(_ context.Context, userID, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(userID); err != nil {
		return false, err
	}
	key := userID + "/" + itemID
	if !contains(s.likes[userID], itemID) || s.hidden[key] {
		return false, nil
	}
	s.hidden[key] = true
	return true, nil
}

func (s *fakeSignals) Dislike(_ context.Context, userID, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(userID); err != nil {
		return false, err
	}
	if contains(s.dislikes[userID], itemID) {
		return false, nil
	}
	s.dislikes[userID] = append(s.dislikes[userID], itemID)
	return true, nil
}

// newest first, like the real stores
func reversed(ids []string) []string {
	out := make([]string, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, ids[i])
	}
	return out
}

func (s *fakeSignals) Closet(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(userID); err != nil {
		return nil, err
	}
	var visible []string
	for _, id := range s.likes[userID] {
		if !s.hidden[userID+"/"+id] {
			visible = append(visible, id)
		}
	}
	return reversed(visible), nil
}

func (s *fakeSignals) Dislikes(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(userID); err != nil {
		return nil, err
	}
	return reversed(s.dislikes[userID]), nil
}

type fakeIndex struct {
	neighbours map[string][]string
	err        error
	gotFilter  feed.CategorySet
}

func (f *fakeIndex) KNN(_ context.Context, seed string, k int, _ feed.ItemSet, filter feed.CategorySet) ([]string, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	ids := f.neighbours[seed]
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids, nil
}

var testItems = []models.Item{
	{ID: "1", Name: "Silk Slip Dress", ImageURLSuffix: "1.jpg", Categories: []string{"DRESSES"}},
	{ID: "2", Name: "Linen Shirt", ImageURLSuffix: "2.jpg", Categories: []string{"TOPS"}},
	{ID: "3", Name: "Wrap Dress", ImageURLSuffix: "3.jpg", Categories: []string{"DRESSES"}, Embedding: []float32{1, 0}},
	{ID: "4", Name: "Denim Jacket", ImageURLSuffix: "4.jpg", Categories: []string{"JACKETS"}},
}

type testEnv struct {
	catalog   *fakeCatalog
	assembler *fakeAssembler
	signals   *fakeSignals
	index     *fakeIndex
	handler   *Handler
	server    http.Handler
	jwt       *auth.JWTManager
}

type envOption func(*HandlerDeps, *config.SecurityConfig)

func withJWT() envOption {
	return func(_ *HandlerDeps, sec *config.SecurityConfig) {
		sec.AuthMode = auth.ModeJWT
		sec.JWTSecret = "test-secret-that-is-at-least-32-bytes-long"
	}
}

func withRateLimit(reqs int) envOption {
	return func(_ *HandlerDeps, sec *config.SecurityConfig) {
		sec.RateLimitDisabled = false
		sec.RateLimitReqs = reqs
	}
}

func withChecks(checks ...ReadinessCheck) envOption {
	return func(deps *HandlerDeps, _ *config.SecurityConfig) {
		deps.Checks = checks
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	env := &testEnv{
		catalog:   newFakeCatalog(testItems...),
		assembler: &fakeAssembler{result: &feed.Result{Items: []string{}}},
		signals:   newFakeSignals("u1", "u2"),
		index:     &fakeIndex{neighbours: map[string][]string{"3": {"1", "4"}}},
	}
	env.catalog.categories = []models.Category{
		{ID: "DRESSES", Name: "Dresses", ItemCount: 2},
		{ID: "TOPS", Name: "Tops", ItemCount: 1},
	}
	env.catalog.outfits["o1"] = models.Outfit{ID: "o1", Name: "Weekend", ItemIDs: []string{"2", "4"}}

	deps := HandlerDeps{
		Catalog:   env.catalog,
		Assembler: env.assembler,
		Signals:   env.signals,
		Index:     env.index,
	}
	sec := config.SecurityConfig{AuthMode: auth.ModeNone, RateLimitDisabled: true}
	for _, opt := range opts {
		opt(&deps, &sec)
	}

	if sec.AuthMode == auth.ModeJWT {
		m, err := auth.NewJWTManager(&sec)
		if err != nil {
			t.Fatal(err)
		}
		env.jwt = m
		deps.Auth = auth.NewMiddleware(m, auth.ModeJWT)
	}

	env.handler = NewHandler(deps)
	env.server = NewRouter(env.handler, deps.Auth, &sec).SetupChi()
	return env
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(userID, 0)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decode(t, rec)
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func summaryIDs(items []models.ItemSummary) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
