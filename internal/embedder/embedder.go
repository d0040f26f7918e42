// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package embedder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/tomtom215/swipewear/internal/config"
)

const (
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

// ErrNoAPIKey is returned by New when no API key is configured.
var ErrNoAPIKey = errors.New("embedder: api key is required")

// EmbeddingClient is the subset of the OpenAI client used here.
type EmbeddingClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAI computes item embeddings through an OpenAI compatible API.
// Requests are throttled by a token bucket and retried with exponential
// backoff.
type OpenAI struct {
	client  EmbeddingClient
	model   openai.EmbeddingModel
	limiter *rate.Limiter
	backoff time.Duration
}

// New creates an embedder from configuration.
func New(cfg *config.EmbedderConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return NewWithClient(openai.NewClientWithConfig(oc), cfg.Model, cfg.RequestsPerSecond), nil
}

// NewWithClient wraps an existing client. A non-positive rps disables
// throttling.
func NewWithClient(client EmbeddingClient, model string, rps float64) *OpenAI {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &OpenAI{
		client:  client,
		model:   openai.EmbeddingModel(model),
		limiter: rate.NewLimiter(limit, 1),
		backoff: initialBackoff,
	}
}

// Embed returns one vector per input text, in input order.
func (e *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var (
		resp    openai.EmbeddingResponse
		lastErr error
	)
	backoff := e.backoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, lastErr = e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: e.model,
		})
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("create embeddings after %d attempts: %w", maxRetries, lastErr)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || out[d.Index] != nil {
			return nil, fmt.Errorf("embeddings response has unexpected index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("embeddings response has an empty vector at index %d", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
