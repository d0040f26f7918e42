// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared (it caches struct
// metadata). Error field names follow json tags, and failures convert to the
// API's VALIDATION_ERROR shape through ToAPIError.
//
// Custom tags:
//   - category_id: 1-64 characters of [A-Za-z0-9_-], the same rule the feed
//     engine applies to category filters
//
// Example:
//
//	type FeedRequest struct {
//	    UserID      string   `json:"user_id" validate:"required,max=128"`
//	    CategoryIDs []string `json:"category_ids" validate:"max=50,dive,category_id"`
//	    Limit       int      `json:"limit" validate:"min=1,max=100"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
