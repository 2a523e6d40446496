package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/datar-psa/evalscore/api"
)

// tracedGenerator runs every call inside a span.
type tracedGenerator struct {
	next     api.LLMGenerator
	tracer   trace.Tracer
	provider string
}

// TraceGenerator returns a generator that records a span for each call to next.
// provider is attached to spans as llm.provider.
func TraceGenerator(next api.LLMGenerator, tracer trace.Tracer, provider string) api.LLMGenerator {
	return &tracedGenerator{next: next, tracer: tracer, provider: provider}
}

func (t *tracedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := t.tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.provider", t.provider),
		attribute.Int("llm.prompt.length", len(prompt)),
	))
	defer span.End()

	text, err := t.next.Generate(ctx, prompt)
	if err != nil {
		recordError(span, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.response.length", len(text)))
	return text, nil
}

func (t *tracedGenerator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	ctx, span := t.tracer.Start(ctx, "llm.structured_generate", trace.WithAttributes(
		attribute.String("llm.provider", t.provider),
		attribute.Int("llm.prompt.length", len(prompt)),
	))
	defer span.End()

	out, err := t.next.StructuredGenerate(ctx, prompt, schema)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("llm.response.fields", len(out)))
	return out, nil
}

type tracedEmbedder struct {
	next     api.Embedder
	tracer   trace.Tracer
	provider string
}

// TraceEmbedder returns an embedder that records a span for each call to next.
func TraceEmbedder(next api.Embedder, tracer trace.Tracer, provider string) api.Embedder {
	return &tracedEmbedder{next: next, tracer: tracer, provider: provider}
}

func (t *tracedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, span := t.tracer.Start(ctx, "embedding.embed", trace.WithAttributes(
		attribute.String("embedding.provider", t.provider),
		attribute.Int("embedding.text.length", len(text)),
	))
	defer span.End()

	vec, err := t.next.Embed(ctx, text)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("embedding.dimensions", len(vec)))
	return vec, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
