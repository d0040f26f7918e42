// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package models

import (
	"time"
)

// APIResponse is the envelope written by every HTTP endpoint.
//
// Status is "success" or "error". On error, Data is null and Error is set.
//
//	{
//	  "status": "success",
//	  "data": [{"id": "1555064075", "name": "Silk Slip Dress", ...}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 12}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`

	// Feed is populated only by the personalized feed endpoint.
	Feed *FeedMetadata `json:"feed,omitempty"`
}

// FeedMetadata describes how a personalized feed was blended.
type FeedMetadata struct {
	Requested        int  `json:"requested"`
	Returned         int  `json:"returned"`
	Seeds            int  `json:"seeds"`
	SimilarityItems  int  `json:"similarity_items"`
	ExplorationItems int  `json:"exploration_items"`
	DegradedSeeds    int  `json:"degraded_seeds,omitempty"`
	Partial          bool `json:"partial"`
	Weighted         bool `json:"weighted"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Codes used by the service:
//   - VALIDATION_ERROR: invalid input (limit out of range, malformed category id)
//   - NOT_FOUND: unknown user or item
//   - SERVICE_UNAVAILABLE: every retrieval strategy failed
//   - UNAUTHORIZED / FORBIDDEN: JWT mode only
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
