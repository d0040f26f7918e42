// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package catalogimport loads catalog items from NDJSON files.
//
// Each line holds one item with its categories, optional embeddings and
// the outfits it belongs to:
//
//	{"id":"i1","name":"Silk Midi Dress","categories":["DRESSES"],"outfits":[{"id":"o1","item_ids":["i1","i7"]}]}
//
// Records are validated, turned into catalog upsert events with ids derived
// from the line content, and handed to a Sink. Two sinks are used by
// swipewearctl:
//
//   - the catalog consumer's Apply, which writes straight to DuckDB
//   - PublishSink, which publishes to the catalog topic so running servers
//     pick the changes up through their consumers
//
// Progress is saved after every batch so an interrupted import resumes at
// the next unprocessed line. BadgerProgress keeps it across runs.
package catalogimport
