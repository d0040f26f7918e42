// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package config provides centralized configuration management for Swipewear.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/swipewear/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

Only mapped environment variables are read. Comma-separated values are split
for slice fields such as CORS_ORIGINS.

# Sections

  - database: DuckDB path, memory limit and threads
  - server: HTTP host, port, timeout and environment
  - security: CORS, rate limiting, optional JWT mode
  - logging: zerolog level, format and caller
  - feed: quotas, timeouts, parallelism and sampler seed
  - index: flat or qdrant backend, refresh interval, circuit breaker
  - signals: duckdb, redis or badger signal store
  - nats: catalog consumer and signal publisher topics
  - embedder: OpenAI settings for the swipewearctl embed command

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Feed.SeedFraction) // 0.3

Validate runs after every load and rejects out-of-range feed limits, unknown
backends, missing backend settings and short JWT secrets.
*/
package config
