// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/database"
)

// testConfig returns a valid configuration backed by a DuckDB file in a
// temporary directory, so separate commands see the same data.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Path:                   filepath.Join(t.TempDir(), "swipewear.duckdb"),
			MaxMemory:              "256MB",
			Threads:                1,
			PreserveInsertionOrder: true,
		},
		Security: config.SecurityConfig{AuthMode: "jwt", JWTSecret: "test-secret-with-enough-entropy-0123456789"},
		Feed: config.FeedConfig{
			DefaultLimit:     10,
			MaxLimit:         100,
			SeedFraction:     0.3,
			SeedTimeout:      time.Second,
			MaxParallelSeeds: 4,
			WeightedDefault:  true,
			RNGSeed:          1,
		},
		Index:    config.IndexConfig{Backend: "flat", Embedding: "coarse"},
		Signals:  config.SignalsConfig{Backend: "duckdb"},
		NATS:     config.NATSConfig{CatalogTopic: "swipewear.catalog"},
		Embedder: config.EmbedderConfig{BatchSize: 16, RequestsPerSecond: 1},
	}
}

func openTestDB(t *testing.T, cfg *config.Config) *database.DB {
	t.Helper()
	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	return db
}

func TestNewRootCmd(t *testing.T) {
	t.Parallel()
	cmd := NewRootCmd()

	if cmd.Use != "swipewearctl" {
		t.Errorf("Use = %q, want %q", cmd.Use, "swipewearctl")
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}

	want := []string{"import", "embed", "index", "feed", "token", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	flag := cmd.PersistentFlags().Lookup("env-file")
	if flag == nil || flag.DefValue != ".env" {
		t.Errorf("--env-file = %+v", flag)
	}
}

func TestSubcommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     []string
		flagName string
		defValue string
	}{
		{[]string{"import"}, "batch-size", "500"},
		{[]string{"import"}, "publish", "false"},
		{[]string{"import"}, "dry-run", "false"},
		{[]string{"import"}, "fresh", "false"},
		{[]string{"import"}, "progress-dir", ""},
		{[]string{"embed"}, "detailed", "false"},
		{[]string{"embed"}, "limit", "0"},
		{[]string{"index", "sync"}, "batch-size", "256"},
		{[]string{"feed"}, "limit", "0"},
		{[]string{"feed"}, "category", "[]"},
		{[]string{"feed"}, "weighted", "false"},
		{[]string{"token"}, "ttl", "24h0m0s"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " ")+"/"+tt.flagName, func(t *testing.T) {
			t.Parallel()
			sub, _, err := NewRootCmd().Find(tt.path)
			if err != nil {
				t.Fatalf("Find(%v): %v", tt.path, err)
			}
			flag := sub.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestArgsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
	}{
		{[]string{"import"}},
		{[]string{"feed"}},
		{[]string{"token", "a", "b"}},
		{[]string{"embed", "extra"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			sub, rest, err := NewRootCmd().Find(tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if err := sub.ValidateArgs(rest); err == nil {
				t.Errorf("args %v accepted", tt.args)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "swipewearctl ") {
		t.Errorf("output = %q", out.String())
	}
}
