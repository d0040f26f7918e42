// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"fmt"
	"time"

	"github.com/tomtom215/swipewear/internal/config"
)

// Config holds the assembler's tuning knobs.
type Config struct {
	// DefaultLimit is used when a request does not name a limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the largest accepted limit.
	MaxLimit int `json:"max_limit"`

	// SeedFraction is the share of the limit used as the seed quota. The
	// remainder is the expansion quota.
	SeedFraction float64 `json:"seed_fraction"`

	// SeedTimeout bounds each per-seed similarity lookup.
	SeedTimeout time.Duration `json:"seed_timeout"`

	// MaxParallelSeeds bounds concurrent per-seed lookups.
	MaxParallelSeeds int `json:"max_parallel_seeds"`

	// WeightedDefault is the sampling mode when a request does not say.
	WeightedDefault bool `json:"weighted_default"`

	// RedistributeQuota hands the quota of seeds that came back short to
	// the seeds that filled theirs. Off by default.
	RedistributeQuota bool `json:"redistribute_quota"`

	// RNGSeed seeds the sampler. Zero seeds from the clock.
	RNGSeed int64 `json:"rng_seed"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:      10,
		MaxLimit:          100,
		SeedFraction:      0.3,
		SeedTimeout:       2 * time.Second,
		MaxParallelSeeds:  8,
		WeightedDefault:   true,
		RedistributeQuota: false,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxLimit < 1 {
		return fmt.Errorf("max_limit must be positive, got %d", c.MaxLimit)
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit must be in [1, %d], got %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.SeedFraction <= 0 || c.SeedFraction >= 1 {
		return fmt.Errorf("seed_fraction must be in (0, 1), got %f", c.SeedFraction)
	}
	if c.SeedTimeout <= 0 {
		return fmt.Errorf("seed_timeout must be positive, got %v", c.SeedTimeout)
	}
	if c.MaxParallelSeeds < 1 {
		return fmt.Errorf("max_parallel_seeds must be positive, got %d", c.MaxParallelSeeds)
	}
	return nil
}

// ConfigFrom maps the feed section of the service configuration.
func ConfigFrom(c *config.FeedConfig) *Config {
	return &Config{
		DefaultLimit:      c.DefaultLimit,
		MaxLimit:          c.MaxLimit,
		SeedFraction:      c.SeedFraction,
		SeedTimeout:       c.SeedTimeout,
		MaxParallelSeeds:  c.MaxParallelSeeds,
		WeightedDefault:   c.WeightedDefault,
		RedistributeQuota: c.RedistributeQuota,
		RNGSeed:           c.RNGSeed,
	}
}
