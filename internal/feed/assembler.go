// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/metrics"
)

// quotaEpsilon absorbs float error in limit*fraction before truncation.
const quotaEpsilon = 1e-9

// Deps are the assembler's collaborators. All are required.
type Deps struct {
	Users       UserResolver
	Preferences PreferenceStore
	Dislikes    DislikeStore
	Index       EmbeddingIndex
	Catalog     CatalogStore

	// Now overrides the sampler clock. Optional.
	Now func() time.Time
}

// Assembler builds personalized feeds. It is safe for concurrent use and
// keeps no state between calls beyond the sampler's random source.
type Assembler struct {
	config    *Config
	logger    zerolog.Logger
	users     UserResolver
	prefs     PreferenceStore
	dislikes  DislikeStore
	sampler   *Sampler
	retriever *Retriever
	explorer  *Explorer
}

// NewAssembler creates an assembler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAssembler(cfg *Config, deps Deps, logger zerolog.Logger) (*Assembler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Users == nil || deps.Preferences == nil || deps.Dislikes == nil || deps.Index == nil || deps.Catalog == nil {
		return nil, errors.New("feed: all collaborators are required")
	}

	return &Assembler{
		config:    cfg,
		logger:    logger.With().Str("component", "feed").Logger(),
		users:     deps.Users,
		prefs:     deps.Preferences,
		dislikes:  deps.Dislikes,
		sampler:   NewSampler(deps.Preferences, cfg.RNGSeed, deps.Now),
		retriever: NewRetriever(deps.Index, deps.Preferences, deps.Dislikes),
		explorer:  NewExplorer(deps.Catalog, deps.Preferences, deps.Dislikes),
	}, nil
}

// Config returns the assembler's configuration.
func (a *Assembler) Config() *Config {
	return a.config
}

// Quotas splits limit into the seed quota and the expansion quota.
//
// seed = max(1, trunc(limit*f)) and expansion = trunc(limit*(1-f)). Below a
// limit of 4 the expansion quota is at least 1 so one seed is still tried.
func Quotas(limit int, fraction float64) (seed, expansion int) {
	if limit <= 0 {
		return 0, 0
	}
	seed = int(math.Floor(float64(limit)*fraction + quotaEpsilon))
	if seed < 1 {
		seed = 1
	}
	expansion = int(math.Floor(float64(limit)*(1-fraction) + quotaEpsilon))
	if limit < 4 && expansion < 1 {
		expansion = 1
	}
	return seed, expansion
}

// seedSlot holds one seed's similarity results.
type seedSlot struct {
	seed  string
	items []string
	err   error
}

// Assemble builds a feed for req.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := ValidateRequest(req, a.config.MaxLimit); err != nil {
		metrics.RecordFeedAssembly("invalid", time.Since(start), 0, 0)
		return nil, err
	}

	logger := a.requestLogger(ctx, req)
	logger.Debug().Msg("assembling feed")

	exists, err := a.users.UserExists(ctx, req.UserID)
	if err != nil {
		metrics.RecordFeedAssembly("unavailable", time.Since(start), 0, 0)
		return nil, newError("assemble", ErrServiceUnavailable, fmt.Errorf("resolve user: %w", err))
	}
	if !exists {
		metrics.RecordFeedAssembly("not_found", time.Since(start), 0, 0)
		return nil, newError("assemble", ErrNotFound, fmt.Errorf("user %q", req.UserID))
	}

	// The exclusion sets guard the dislike and preference invariants. Without
	// them nothing can be served safely.
	exclude, err := a.userExclusions(ctx, req.UserID)
	if err != nil {
		metrics.RecordFeedAssembly("unavailable", time.Since(start), 0, 0)
		return nil, newError("assemble", ErrServiceUnavailable, err)
	}

	seedQuota, expansion := Quotas(req.Limit, a.config.SeedFraction)

	seeds, samplerErr := a.sampler.Sample(ctx, req.UserID, seedQuota, req.Weighted)
	if samplerErr != nil {
		logger.Warn().Err(samplerErr).Msg("preference sampling failed, continuing without seeds")
		metrics.RecordSeedFailure("sampler")
		seeds = nil
	}

	res := &Result{SeedCount: len(seeds)}
	accumulated := make([]string, 0, req.Limit)
	seen := make(ItemSet, req.Limit)

	if len(seeds) > 0 {
		topK := expansion / max(1, len(seeds))
		slots := a.retrieveSeeds(ctx, seeds, topK, exclude, req.Categories)

		for _, slot := range slots {
			if slot.err != nil {
				res.DegradedSeeds++
				logger.Warn().Err(slot.err).Str("seed", slot.seed).Msg("similarity lookup failed for seed")
				metrics.RecordSeedFailure(seedFailureReason(slot.err))
				continue
			}
			accumulated = appendUnique(accumulated, seen, slot.items)
		}

		if a.config.RedistributeQuota {
			accumulated = a.redistribute(ctx, slots, topK, expansion, accumulated, seen, exclude, req.Categories)
		}
	}
	accumulated = truncate(accumulated, req.Limit)
	res.SimilarityCount = len(accumulated)

	var explorerErr error
	if shortfall := req.Limit - len(accumulated); shortfall > 0 {
		explored, err := a.explorer.FillExcluding(ctx, req.Categories, shortfall, unionSets(exclude, seen))
		if err != nil {
			explorerErr = err
			logger.Warn().Err(err).Int("shortfall", shortfall).Msg("exploration failed")
		} else {
			accumulated = appendUnique(accumulated, seen, explored)
		}
	}

	res.Items = truncate(accumulated, req.Limit)
	res.ExplorationCount = len(res.Items) - res.SimilarityCount
	res.Partial = len(res.Items) < req.Limit

	if len(res.Items) == 0 && explorerErr != nil {
		metrics.RecordFeedAssembly("unavailable", time.Since(start), 0, 0)
		return nil, newError("assemble", ErrServiceUnavailable,
			errors.Join(samplerErr, explorerErr))
	}

	outcome := "ok"
	if res.Partial {
		outcome = "partial"
	}
	metrics.RecordFeedAssembly(outcome, time.Since(start), res.SimilarityCount, res.ExplorationCount)

	logger.Debug().
		Int("seeds", res.SeedCount).
		Int("similarity", res.SimilarityCount).
		Int("exploration", res.ExplorationCount).
		Int("degraded_seeds", res.DegradedSeeds).
		Bool("partial", res.Partial).
		Dur("latency", time.Since(start)).
		Msg("feed assembled")

	return res, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Assembler) requestLogger(ctx context.Context, req Request) zerolog.Logger {
	lc := a.logger.With().
		Str("user_id", req.UserID).
		Int("limit", req.Limit).
		Bool("weighted", req.Weighted)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	return lc.Logger()
}

func (a *Assembler) userExclusions(ctx context.Context, userID string) (ItemSet, error) {
	disliked, err := a.dislikes.DislikedSet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load dislikes: %w", err)
	}
	preferred, err := a.prefs.PreferredSet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return unionSets(disliked, preferred), nil
}

// retrieveSeeds runs one similarity lookup per seed with bounded
// parallelism. Slot i always belongs to seeds[i] so the merge follows seed
// order, not completion order.
func (a *Assembler) retrieveSeeds(ctx context.Context, seeds []string, topK int, exclude ItemSet, filter CategorySet) []seedSlot {
	slots := make([]seedSlot, len(seeds))
	if topK <= 0 {
		for i, seed := range seeds {
			slots[i] = seedSlot{seed: seed, items: []string{}}
		}
		return slots
	}

	var g errgroup.Group
	g.SetLimit(a.config.MaxParallelSeeds)

	for i, seed := range seeds {
		g.Go(func() error {
			slots[i] = a.retrieveOne(ctx, seed, topK, exclude, filter)
			return nil
		})
	}
	_ = g.Wait() // lookups never fail the group

	return slots
}

func (a *Assembler) retrieveOne(ctx context.Context, seed string, k int, exclude ItemSet, filter CategorySet) seedSlot {
	seedCtx, cancel := context.WithTimeout(ctx, a.config.SeedTimeout)
	defer cancel()

	items, err := a.retriever.RetrieveExcluding(seedCtx, seed, k, exclude, filter)
	return seedSlot{seed: seed, items: items, err: err}
}

// redistribute hands the quota that short seeds left unused to the seeds
// that filled theirs, then appends the extra neighbours in seed order.
func (a *Assembler) redistribute(
	ctx context.Context,
	slots []seedSlot,
	topK, expansion int,
	accumulated []string,
	seen, exclude ItemSet,
	filter CategorySet,
) []string {
	deficit := expansion - len(accumulated)
	if deficit <= 0 || topK <= 0 {
		return accumulated
	}

	productive := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.err == nil && len(slot.items) >= topK {
			productive = append(productive, slot.seed)
		}
	}
	if len(productive) == 0 {
		return accumulated
	}

	share := deficit / len(productive)
	rest := deficit % len(productive)
	extras := make([]seedSlot, len(productive))
	blocked := unionSets(exclude, seen)

	var g errgroup.Group
	g.SetLimit(a.config.MaxParallelSeeds)
	for i, seed := range productive {
		k := share
		if i < rest {
			k++
		}
		if k == 0 {
			continue
		}
		g.Go(func() error {
			extras[i] = a.retrieveOne(ctx, seed, k, blocked, filter)
			return nil
		})
	}
	_ = g.Wait()

	for _, slot := range extras {
		if slot.err != nil {
			a.logger.Debug().Err(slot.err).Str("seed", slot.seed).Msg("redistribution lookup failed")
			continue
		}
		accumulated = appendUnique(accumulated, seen, slot.items)
	}
	return accumulated
}

func seedFailureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unavailable"
	}
}
