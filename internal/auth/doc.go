// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package auth provides optional bearer-token authentication.
//
// With security.auth_mode=none (the default) every request passes. With
// auth_mode=jwt each /api/v1 request outside the health routes needs an
// HS256 token whose subject is the user id. Handlers that act on a user
// call Middleware.Authorize so a token can only read or write its own
// feed and signals.
//
// Tokens are minted by "swipewearctl token".
package auth
