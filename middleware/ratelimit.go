// Package middleware wraps LLM generators and embedders with rate limiting and tracing.
package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/datar-psa/evalscore/api"
)

// rateLimitedGenerator waits on a token bucket before every call.
type rateLimitedGenerator struct {
	next    api.LLMGenerator
	limiter *rate.Limiter
}

// RateLimitGenerator returns a generator that allows limit calls per second to next,
// with bursts of up to burst calls.
func RateLimitGenerator(next api.LLMGenerator, limit rate.Limit, burst int) api.LLMGenerator {
	return &rateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (r *rateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Generate(ctx, prompt)
}

func (r *rateLimitedGenerator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.StructuredGenerate(ctx, prompt, schema)
}

type rateLimitedEmbedder struct {
	next    api.Embedder
	limiter *rate.Limiter
}

// RateLimitEmbedder returns an embedder that allows limit calls per second to next,
// with bursts of up to burst calls.
func RateLimitEmbedder(next api.Embedder, limit rate.Limit, burst int) api.Embedder {
	return &rateLimitedEmbedder{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (r *rateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Embed(ctx, text)
}
