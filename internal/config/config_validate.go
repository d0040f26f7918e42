// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateFeed,
		c.validateIndex,
		c.validateSignals,
		c.validateNATS,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// minJWTSecretLength matches HS256 key size.
const minJWTSecretLength = 32

var validAuthModes = map[string]bool{
	"none": true,
	"jwt":  true,
}

func (c *Config) validateSecurity() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}
	if c.Security.AuthMode == "jwt" {
		if err := c.validateJWTSecret(); err != nil {
			return err
		}
	}
	return c.validateRateLimits()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// ShouldWarnAboutCORS reports a wildcard origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// maxFeedLimit caps feed.max_limit so a single request cannot fan out
// unbounded kNN work.
const maxFeedLimit = 1000

func (c *Config) validateFeed() error {
	f := c.Feed
	if f.MaxLimit < 1 || f.MaxLimit > maxFeedLimit {
		return fmt.Errorf("FEED_MAX_LIMIT must be between 1 and %d", maxFeedLimit)
	}
	if f.DefaultLimit < 1 || f.DefaultLimit > f.MaxLimit {
		return fmt.Errorf("FEED_DEFAULT_LIMIT must be between 1 and FEED_MAX_LIMIT (%d)", f.MaxLimit)
	}
	if f.SeedFraction <= 0 || f.SeedFraction >= 1 {
		return fmt.Errorf("FEED_SEED_FRACTION must be strictly between 0 and 1")
	}
	if f.SeedTimeout <= 0 {
		return fmt.Errorf("FEED_SEED_TIMEOUT must be positive")
	}
	if f.RequestTimeout < f.SeedTimeout {
		return fmt.Errorf("FEED_REQUEST_TIMEOUT must be at least FEED_SEED_TIMEOUT")
	}
	if f.MaxParallelSeeds < 1 {
		return fmt.Errorf("FEED_MAX_PARALLEL_SEEDS must be at least 1")
	}
	if f.SummaryCacheSize < 0 {
		return fmt.Errorf("FEED_SUMMARY_CACHE_SIZE must be >= 0")
	}
	return nil
}

func (c *Config) validateIndex() error {
	switch c.Index.Backend {
	case "flat":
	case "qdrant":
		if c.Index.QdrantHost == "" {
			return fmt.Errorf("QDRANT_HOST is required when INDEX_BACKEND=qdrant")
		}
		if c.Index.QdrantPort < 1 || c.Index.QdrantPort > 65535 {
			return fmt.Errorf("QDRANT_PORT must be between 1 and 65535")
		}
		if c.Index.QdrantCollection == "" {
			return fmt.Errorf("QDRANT_COLLECTION is required when INDEX_BACKEND=qdrant")
		}
	default:
		return fmt.Errorf("INDEX_BACKEND must be one of: flat, qdrant")
	}

	if c.Index.Embedding != "coarse" && c.Index.Embedding != "detailed" {
		return fmt.Errorf("INDEX_EMBEDDING must be one of: coarse, detailed")
	}
	if c.Index.RefreshInterval < time.Second {
		return fmt.Errorf("INDEX_REFRESH_INTERVAL must be at least 1s")
	}
	if c.Index.BreakerMaxFailures == 0 {
		return fmt.Errorf("INDEX_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateSignals() error {
	switch c.Signals.Backend {
	case "duckdb":
	case "redis":
		if c.Signals.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SIGNALS_BACKEND=redis")
		}
		if c.Signals.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must be >= 0")
		}
	case "badger":
		if c.Signals.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when SIGNALS_BACKEND=badger")
		}
	default:
		return fmt.Errorf("SIGNALS_BACKEND must be one of: duckdb, redis, badger")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.CatalogTopic == "" || c.NATS.SignalsTopic == "" {
		return fmt.Errorf("NATS_CATALOG_TOPIC and NATS_SIGNALS_TOPIC are required when NATS is enabled")
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
	}
	return nil
}

// ValidateEmbedder checks the settings needed by the embedding backfill.
// It is separate from Validate because only the CLI needs an API key.
func (c *Config) ValidateEmbedder() error {
	if c.Embedder.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for embedding")
	}
	if c.Embedder.BaseURL != "" {
		if err := validateHTTPURL(c.Embedder.BaseURL, "OPENAI_BASE_URL"); err != nil {
			return err
		}
	}
	if c.Embedder.BatchSize < 1 || c.Embedder.BatchSize > 2048 {
		return fmt.Errorf("EMBEDDER_BATCH_SIZE must be between 1 and 2048")
	}
	if c.Embedder.RequestsPerSecond <= 0 {
		return fmt.Errorf("EMBEDDER_REQUESTS_PER_SEC must be positive")
	}
	return nil
}

// placeholderPatterns are values that indicate a secret was never set.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
