// Package openai implements the LLMGenerator and Embedder interfaces on top of
// github.com/sashabaranov/go-openai. Any OpenAI-compatible endpoint works when the
// client is configured with a custom BaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/datar-psa/evalscore/api"
	"github.com/datar-psa/evalscore/internal/structured"
)

// DefaultModel is used when NewGenerator is given an empty model name
const DefaultModel = goopenai.GPT4oMini

// ErrNoChoices is returned when a chat completion comes back without choices
var ErrNoChoices = errors.New("no choices returned")

// NewClient creates a go-openai client. baseURL may be empty to use the public API.
func NewClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg)
}

// Generator wraps a go-openai client to implement the LLMGenerator interface
type Generator struct {
	client    *goopenai.Client
	modelName string
}

// NewGenerator creates a new OpenAI generator
// modelName: the chat model to use (e.g., "gpt-4o-mini")
func NewGenerator(client *goopenai.Client, modelName string) *Generator {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt, nil)
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate using JSON object mode.
// The schema is embedded in the prompt since JSON object mode does not enforce it.
func (g *Generator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	fullPrompt, err := structured.Prompt(prompt, schema)
	if err != nil {
		return nil, err
	}

	text, err := g.complete(ctx, fullPrompt, &goopenai.ChatCompletionResponseFormat{
		Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
	})
	if err != nil {
		return nil, err
	}

	return structured.Decode(text)
}

func (g *Generator) complete(ctx context.Context, prompt string, format *goopenai.ChatCompletionResponseFormat) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
