// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"errors"
	"fmt"
	"regexp"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	ErrServiceUnavailable   = errors.New("service unavailable")
)

// MaxCategoryIDLength bounds category ids accepted in requests.
const MaxCategoryIDLength = 64

var categoryIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Error records the failed operation, its kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("feed %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("feed %s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// ValidCategoryID reports whether id is a well-formed category id.
func ValidCategoryID(id string) bool {
	return id != "" && len(id) <= MaxCategoryIDLength && categoryIDPattern.MatchString(id)
}

// ValidateRequest checks limit and category ids against maxLimit. It touches
// no store.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func ValidateRequest(req Request, maxLimit int) error {
	if req.UserID == "" {
		return newError("validate", ErrInvalidArgument, errors.New("user id is required"))
	}
	if req.Limit <= 0 {
		return newError("validate", ErrInvalidArgument, fmt.Errorf("limit must be positive, got %d", req.Limit))
	}
	if req.Limit > maxLimit {
		return newError("validate", ErrInvalidArgument, fmt.Errorf("limit must be at most %d, got %d", maxLimit, req.Limit))
	}
	for id := range req.Categories {
		if !ValidCategoryID(id) {
			return newError("validate", ErrInvalidArgument, fmt.Errorf("malformed category id %q", id))
		}
	}
	return nil
}
