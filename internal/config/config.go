// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Feed     FeedConfig     `koanf:"feed"`
	Index    IndexConfig    `koanf:"index"`
	Signals  SignalsConfig  `koanf:"signals"`
	NATS     NATSConfig     `koanf:"nats"`
	Embedder EmbedderConfig `koanf:"embedder"`
}

// DatabaseConfig holds DuckDB settings for the catalog and the default
// signal store.
//
// Environment Variables:
//   - DUCKDB_PATH: database file (default: /data/swipewear.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DUCKDB_THREADS: worker threads, 0 = NumCPU
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // 0 = use NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // DuckDB default is true
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// SecurityConfig holds CORS, rate limiting and the optional JWT mode.
//
// AuthMode is "none" (default) or "jwt". In jwt mode a bearer token's
// subject must match the user_id on feed and signal endpoints.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// FeedConfig tunes the personalized feed assembler.
//
// SeedFraction splits the requested limit between preference seeds and
// similarity expansion. RNGSeed 0 seeds the sampler from the clock.
type FeedConfig struct {
	DefaultLimit      int           `koanf:"default_limit"`
	MaxLimit          int           `koanf:"max_limit"`
	SeedFraction      float64       `koanf:"seed_fraction"`
	SeedTimeout       time.Duration `koanf:"seed_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	MaxParallelSeeds  int           `koanf:"max_parallel_seeds"`
	WeightedDefault   bool          `koanf:"weighted_default"`
	RedistributeQuota bool          `koanf:"redistribute_quota"`
	RNGSeed           int64         `koanf:"rng_seed"`
	SummaryCacheSize  int           `koanf:"summary_cache_size"`
	SummaryCacheTTL   time.Duration `koanf:"summary_cache_ttl"`
}

// IndexConfig selects and tunes the embedding index.
//
// Backend "flat" keeps every embedding in memory and is rebuilt from DuckDB
// every RefreshInterval. Backend "qdrant" delegates kNN to a Qdrant
// collection populated by `swipewearctl index sync`.
type IndexConfig struct {
	Backend            string        `koanf:"backend"`
	RefreshInterval    time.Duration `koanf:"refresh_interval"`
	Embedding          string        `koanf:"embedding"` // coarse or detailed
	QdrantHost         string        `koanf:"qdrant_host"`
	QdrantPort         int           `koanf:"qdrant_port"`
	QdrantCollection   string        `koanf:"qdrant_collection"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// Detailed reports whether the detailed embedding is configured.
func (c *IndexConfig) Detailed() bool {
	return c.Embedding == "detailed"
}

// SignalsConfig selects where likes and dislikes are stored.
type SignalsConfig struct {
	Backend        string `koanf:"backend"` // duckdb, redis or badger
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
	BadgerPath     string `koanf:"badger_path"`
}

// NATSConfig controls catalog event consumption and signal publishing.
type NATSConfig struct {
	// Enabled controls whether event processing is active.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer runs an in-process NATS server with JetStream.
	// If false, expects an external server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	CatalogTopic string `koanf:"catalog_topic"`
	SignalsTopic string `koanf:"signals_topic"`

	// DurableName is the JetStream durable consumer name.
	DurableName string `koanf:"durable_name"`

	// DedupTTL bounds how long a consumed event id is remembered.
	DedupTTL time.Duration `koanf:"dedup_ttl"`
}

// EmbedderConfig is used by `swipewearctl embed` only.
type EmbedderConfig struct {
	APIKey            string  `koanf:"api_key"`
	BaseURL           string  `koanf:"base_url"`
	Model             string  `koanf:"model"`
	BatchSize         int     `koanf:"batch_size"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// Load reads configuration from defaults, the config file and the
// environment, in that order. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
