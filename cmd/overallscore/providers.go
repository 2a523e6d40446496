package main

import (
	"context"
	"errors"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/datar-psa/evalscore/anthropic"
	"github.com/datar-psa/evalscore/api"
	"github.com/datar-psa/evalscore/config"
	"github.com/datar-psa/evalscore/embedding"
	"github.com/datar-psa/evalscore/gemini"
	"github.com/datar-psa/evalscore/heuristic"
	"github.com/datar-psa/evalscore/llmjudge"
	"github.com/datar-psa/evalscore/middleware"
	"github.com/datar-psa/evalscore/openai"
	"github.com/datar-psa/evalscore/overall"
)

const safetyMetric = "safety"

var errMissingProject = errors.New("judge.project is required for Google providers")

// providers holds everything built from the configuration.
type providers struct {
	delegates overall.Delegates
	options   []overall.Option
	closers   []func() error
}

func (p *providers) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func buildProviders(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (*providers, error) {
	p := &providers{}
	limit := rate.Limit(cfg.RateLimit.RequestsPerSecond)

	var genaiClient *genai.Client
	googleClient := func() (*genai.Client, error) {
		if genaiClient != nil {
			return genaiClient, nil
		}
		if cfg.Judge.Project == "" {
			return nil, errMissingProject
		}
		c, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Judge.Project,
			Location: cfg.Judge.Location,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		genaiClient = c
		return c, nil
	}

	gen, err := buildGenerator(cfg.Judge, googleClient)
	if err != nil {
		return nil, err
	}
	gen = middleware.TraceGenerator(middleware.RateLimitGenerator(gen, limit, cfg.RateLimit.Burst), tracer, cfg.Judge.Provider)

	p.delegates.FactualConsistency = llmjudge.FactualConsistency(gen, llmjudge.FactualConsistencyOptions{})
	p.delegates.AnswerRelevancy = llmjudge.AnswerRelevancy(gen, llmjudge.AnswerRelevancyOptions{})

	if cfg.Embedding.Provider == config.ProviderLevenshtein {
		p.delegates.ConceptualSimilarity = heuristic.LevenshteinSimilarity(heuristic.LevenshteinSimilarityOptions{
			Normalization: heuristic.Normalization{CaseInsensitive: true, TrimWhitespace: true},
		})
	} else {
		emb, err := buildEmbedder(cfg.Embedding, googleClient)
		if err != nil {
			return nil, err
		}
		emb = middleware.TraceEmbedder(middleware.RateLimitEmbedder(emb, limit, cfg.RateLimit.Burst), tracer, cfg.Embedding.Provider)
		p.delegates.ConceptualSimilarity = embedding.ConceptualSimilarity(emb, embedding.ConceptualSimilarityOptions{})
	}

	if cfg.Moderation.Enabled {
		langClient, err := language.NewRESTClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create language client: %w", err)
		}
		p.closers = append(p.closers, langClient.Close)
		p.options = append(p.options, overall.WithAdditionalScorer(safetyMetric, llmjudge.Moderation(
			gemini.NewGoogleLanguageProvider(langClient),
			llmjudge.ModerationOptions{Threshold: cfg.Moderation.Threshold},
		)))
	}

	return p, nil
}

func buildGenerator(j config.Judge, googleClient func() (*genai.Client, error)) (api.LLMGenerator, error) {
	switch j.Provider {
	case config.ProviderGemini:
		c, err := googleClient()
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(c, j.Model), nil
	case config.ProviderOpenAI:
		key, err := j.APIKey()
		if err != nil {
			return nil, err
		}
		return openai.NewGenerator(openai.NewClient(key, j.BaseURL), j.Model), nil
	case config.ProviderAnthropic:
		key, err := j.APIKey()
		if err != nil {
			return nil, err
		}
		return anthropic.NewGenerator(anthropic.NewClient(key, j.BaseURL), j.Model), nil
	default:
		return nil, fmt.Errorf("unsupported judge provider %q", j.Provider)
	}
}

func buildEmbedder(e config.Embedding, googleClient func() (*genai.Client, error)) (api.Embedder, error) {
	switch e.Provider {
	case config.ProviderGemini:
		c, err := googleClient()
		if err != nil {
			return nil, err
		}
		return gemini.NewEmbedder(c, e.Model), nil
	case config.ProviderOpenAI:
		key, err := e.APIKey()
		if err != nil {
			return nil, err
		}
		return openai.NewEmbedder(openai.NewClient(key, e.BaseURL), e.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", e.Provider)
	}
}
