// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type signalRequest struct {
	UserID string `json:"user_id" validate:"required,max=128,printascii"`
	ItemID string `json:"item_id" validate:"required,max=128,printascii"`
}

type signalResponse struct {
	UserID  string `json:"user_id"`
	ItemID  string `json:"item_id"`
	Changed bool   `json:"changed"`
}

// readSignal decodes and validates a signal body, then checks the caller
// may act for the user. It answers the request itself on failure.
func (h *Handler) readSignal(w http.ResponseWriter, r *http.Request) (signalRequest, bool) {
	var req signalRequest

	// DELETE clients often cannot send a body, so query parameters work too.
	if r.Method == http.MethodDelete && r.URL.Query().Has("user_id") {
		req.UserID = r.URL.Query().Get("user_id")
		req.ItemID = r.URL.Query().Get("item_id")
	} else if err := decodeJSONBody(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return req, false
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return req, false
	}
	if !h.authorize(w, r, req.UserID) {
		return req, false
	}
	return req, true
}

func (h *Handler) serveSignal(w http.ResponseWriter, r *http.Request, status int,
	write func(r *http.Request, userID, itemID string) (bool, error)) {
	start := time.Now()

	req, ok := h.readSignal(w, r)
	if !ok {
		return
	}
	changed, err := write(r, req.UserID, req.ItemID)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	respondSuccess(w, status, signalResponse{UserID: req.UserID, ItemID: req.ItemID, Changed: changed}, start)
}

// Like serves POST /api/v1/likes and its onboarding alias POST
// /api/v1/preferences. Repeating a like returns 201 with changed=false.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.serveSignal(w, r, http.StatusCreated, func(r *http.Request, userID, itemID string) (bool, error) {
		return h.signals.Like(r.Context(), userID, itemID)
	})
}

// Unlike serves DELETE /api/v1/likes.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.serveSignal(w, r, http.StatusOK, func(r *http.Request, userID, itemID string) (bool, error) {
		return h.signals.Unlike(r.Context(), userID, itemID)
	})
}

// HideFromCloset serves POST /api/v1/likes/closet/hide.
func (h *Handler) HideFromCloset(w http.ResponseWriter, r *http.Request) {
	h.serveSignal(w, r, http.StatusOK, func(r *http.Request, userID, itemID string) (bool, error) {
		return h.signals.HideFromCloset(r.Context(), userID, itemID)
	})
}

// Dislike serves POST /api/v1/dislikes.
func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.serveSignal(w, r, http.StatusCreated, func(r *http.Request, userID, itemID string) (bool, error) {
		return h.signals.Dislike(r.Context(), userID, itemID)
	})
}

// Closet serves GET /api/v1/likes/{userID}: visible likes, newest first.
func (h *Handler) Closet(w http.ResponseWriter, r *http.Request) {
	h.serveSignalList(w, r, h.signals.Closet)
}

// Dislikes serves GET /api/v1/dislikes/{userID}, newest first.
func (h *Handler) Dislikes(w http.ResponseWriter, r *http.Request) {
	h.serveSignalList(w, r, h.signals.Dislikes)
}

func (h *Handler) serveSignalList(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, userID string) ([]string, error)) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")
	if !h.authorize(w, r, userID) {
		return
	}

	ids, err := list(r.Context(), userID)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	items, err := h.hydrate(r.Context(), ids)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, items, start)
}
