// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package feed assembles personalized item feeds.

A feed is built from three strategies, in order:

  - Sampler draws a recency-weighted random subset of the items a user has
    liked. These are the seeds.
  - Retriever expands each seed into its nearest unseen neighbours in the
    embedding space, honouring the request's category filter.
  - Explorer tops the feed up with random unseen catalog items when
    similarity retrieval under-supplies.

Assembler orchestrates the three. Per-seed lookups run concurrently with a
bounded fan-out and an individual timeout each; their results are merged in
seed order, deduplicated on first appearance and truncated to the requested
limit. Items the user has liked or disliked never appear in a feed.

Failures degrade locally. A seed whose lookup fails contributes nothing and
is counted in Result.DegradedSeeds; a short feed is a valid response with
Result.Partial set. Only an unknown user (ErrNotFound), a malformed request
(ErrInvalidArgument) or a request that produced nothing because every
strategy failed (ErrServiceUnavailable) surface as errors.

Usage:

	asm, err := feed.NewAssembler(cfg, feed.Deps{
	    Users:       db,
	    Preferences: prefs,
	    Dislikes:    prefs,
	    Index:       idx,
	    Catalog:     db,
	}, logger)
	if err != nil {
	    return err
	}

	res, err := asm.Assemble(ctx, feed.Request{
	    UserID:     "u-123",
	    Categories: feed.NewCategorySet("DRESSES"),
	    Limit:      10,
	    Weighted:   true,
	})

The package owns no storage. Collaborators are expressed as the small
interfaces in types.go and implemented by the database, signals and index
packages.
*/
package feed
