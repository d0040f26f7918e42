// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/swipewear/config.yaml",
	"/etc/swipewear/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/swipewear.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			AuthMode:          "none",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Feed: FeedConfig{
			DefaultLimit:      10,
			MaxLimit:          100,
			SeedFraction:      0.3,
			SeedTimeout:       2 * time.Second,
			RequestTimeout:    10 * time.Second,
			MaxParallelSeeds:  8,
			WeightedDefault:   true,
			RedistributeQuota: false,
			RNGSeed:           0,
			SummaryCacheSize:  4096,
			SummaryCacheTTL:   5 * time.Minute,
		},
		Index: IndexConfig{
			Backend:            "flat",
			RefreshInterval:    5 * time.Minute,
			Embedding:          "coarse",
			QdrantHost:         "localhost",
			QdrantPort:         6334,
			QdrantCollection:   "swipewear_items",
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Signals: SignalsConfig{
			Backend:        "duckdb",
			RedisAddr:      "localhost:6379",
			RedisDB:        0,
			RedisKeyPrefix: "swipewear",
			BadgerPath:     "/data/signals",
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			CatalogTopic:   "catalog.items",
			SignalsTopic:   "signals.events",
			DurableName:    "swipewear-catalog",
			DedupTTL:       10 * time.Minute,
		},
		Embedder: EmbedderConfig{
			Model:             "text-embedding-3-small",
			BatchSize:         64,
			RequestsPerSecond: 2,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// FEED_SEED_FRACTION -> feed.seed_fraction
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak into
// the configuration.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Feed
	"feed_default_limit":      "feed.default_limit",
	"feed_max_limit":          "feed.max_limit",
	"feed_seed_fraction":      "feed.seed_fraction",
	"feed_seed_timeout":       "feed.seed_timeout",
	"feed_request_timeout":    "feed.request_timeout",
	"feed_max_parallel_seeds": "feed.max_parallel_seeds",
	"feed_weighted_default":   "feed.weighted_default",
	"feed_redistribute_quota": "feed.redistribute_quota",
	"feed_rng_seed":           "feed.rng_seed",
	"feed_summary_cache_size": "feed.summary_cache_size",
	"feed_summary_cache_ttl":  "feed.summary_cache_ttl",

	// Index
	"index_backend":              "index.backend",
	"index_refresh_interval":     "index.refresh_interval",
	"index_embedding":            "index.embedding",
	"qdrant_host":                "index.qdrant_host",
	"qdrant_port":                "index.qdrant_port",
	"qdrant_collection":          "index.qdrant_collection",
	"index_breaker_max_failures": "index.breaker_max_failures",
	"index_breaker_timeout":      "index.breaker_timeout",

	// Signals
	"signals_backend":  "signals.backend",
	"redis_addr":       "signals.redis_addr",
	"redis_password":   "signals.redis_password",
	"redis_db":         "signals.redis_db",
	"redis_key_prefix": "signals.redis_key_prefix",
	"badger_path":      "signals.badger_path",

	// NATS
	"nats_enabled":       "nats.enabled",
	"nats_url":           "nats.url",
	"nats_embedded":      "nats.embedded_server",
	"nats_store_dir":     "nats.store_dir",
	"nats_catalog_topic": "nats.catalog_topic",
	"nats_signals_topic": "nats.signals_topic",
	"nats_durable_name":  "nats.durable_name",
	"nats_dedup_ttl":     "nats.dedup_ttl",

	// Embedder
	"openai_api_key":            "embedder.api_key",
	"openai_base_url":           "embedder.base_url",
	"embedder_model":            "embedder.model",
	"embedder_batch_size":       "embedder.batch_size",
	"embedder_requests_per_sec": "embedder.requests_per_second",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - FEED_SEED_FRACTION -> feed.seed_fraction
//   - REDIS_ADDR -> signals.redis_addr
//   - OPENAI_API_KEY -> embedder.api_key
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
