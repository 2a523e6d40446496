// Package anthropic implements the LLMGenerator interface with the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/datar-psa/evalscore/api"
	"github.com/datar-psa/evalscore/internal/structured"
)

const (
	// DefaultModel is used when NewGenerator is given an empty model name
	DefaultModel = "claude-3-5-sonnet-20241022"
	// DefaultMaxTokens bounds judge responses, which are short JSON objects
	DefaultMaxTokens = 1024
)

// ErrEmptyResponse is returned when a message carries no text blocks
var ErrEmptyResponse = errors.New("empty response from Anthropic API")

// NewClient creates an Anthropic client. baseURL may be empty to use the public API.
func NewClient(apiKey, baseURL string, opts ...option.RequestOption) sdk.Client {
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	return sdk.NewClient(append(all, opts...)...)
}

// Generator wraps an Anthropic client to implement the LLMGenerator interface
type Generator struct {
	client    sdk.Client
	modelName string
	maxTokens int64
}

// NewGenerator creates a new Anthropic generator
// modelName: the Claude model to use (e.g., "claude-3-5-sonnet-20241022")
func NewGenerator(client sdk.Client, modelName string) *Generator {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Generator{
		client:    client,
		modelName: modelName,
		maxTokens: DefaultMaxTokens,
	}
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(g.modelName),
		MaxTokens:   g.maxTokens,
		Temperature: sdk.Float(0),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(sdk.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate by embedding the schema
// in the prompt and extracting the JSON object from the reply.
func (g *Generator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	fullPrompt, err := structured.Prompt(prompt, schema)
	if err != nil {
		return nil, err
	}

	text, err := g.Generate(ctx, fullPrompt)
	if err != nil {
		return nil, err
	}

	return structured.Decode(text)
}

// wrapError adds status context to Anthropic SDK errors
func wrapError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401:
			return fmt.Errorf("anthropic authentication failed (%d): %w", apiErr.StatusCode, err)
		case 429:
			return fmt.Errorf("anthropic rate limit exceeded: %w", err)
		default:
			return fmt.Errorf("anthropic API error (%d): %w", apiErr.StatusCode, err)
		}
	}
	return fmt.Errorf("anthropic request failed: %w", err)
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
