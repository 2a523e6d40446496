// Package config loads the YAML configuration of the overallscore command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderLevenshtein = "levenshtein"
)

// Defaults applied to fields left unset.
const (
	DefaultMinimumScore      = 0.5
	DefaultLogLevel          = "info"
	DefaultConcurrency       = 4
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 1
	DefaultLocation          = "us-central1"
	DefaultJudgeModel        = "gemini-2.5-flash"
	DefaultEmbeddingModel    = "text-embedding-005"
	DefaultModerationLimit   = 0.5
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateConfig, Config{})
	return v
}

// validateConfig checks rules spanning sections: the gemini embedder shares the judge's
// Vertex AI project, so it needs judge.project whatever the judge provider is.
func validateConfig(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.Embedding.Provider == ProviderGemini && c.Judge.Project == "" {
		sl.ReportError(c.Judge.Project, "Judge.Project", "Project", "required_with_gemini_embedding", "")
	}
}

// Config is the root configuration document.
type Config struct {
	// MinimumScore is the default success threshold for every case.
	MinimumScore *float64 `yaml:"minimum_score" validate:"required,gte=0,lte=1"`
	// LogLevel sets the level of log.Default.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
	// Concurrency bounds the number of cases evaluated at once.
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=64"`

	RateLimit  RateLimit  `yaml:"rate_limit"`
	Judge      Judge      `yaml:"judge"`
	Embedding  Embedding  `yaml:"embedding"`
	Moderation Moderation `yaml:"moderation"`
}

// RateLimit applies to every provider call.
type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" validate:"gte=1"`
}

// Judge selects the LLM used by factual consistency and answer relevancy.
type Judge struct {
	Provider string `yaml:"provider" validate:"oneof=gemini openai anthropic"`
	Model    string `yaml:"model"`
	// Project and Location configure Vertex AI for the gemini provider.
	Project  string `yaml:"project" validate:"required_if=Provider gemini"`
	Location string `yaml:"location"`
	// APIKeyEnv names the environment variable holding the API key for openai and anthropic.
	APIKeyEnv string `yaml:"api_key_env" validate:"required_unless=Provider gemini"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// Embedding selects the backend of conceptual similarity. The levenshtein provider
// replaces embeddings with normalized edit distance and needs no credentials.
type Embedding struct {
	Provider  string `yaml:"provider" validate:"oneof=gemini openai levenshtein"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env" validate:"required_if=Provider openai"`
	BaseURL   string `yaml:"base_url" validate:"omitempty,url"`
}

// Moderation adds a safety sub-metric backed by the Google Cloud Natural Language API.
type Moderation struct {
	Enabled   bool    `yaml:"enabled"`
	// Threshold is the confidence above which a category is flagged. Zero flags any
	// non-zero confidence.
	Threshold *float64 `yaml:"threshold" validate:"required,gte=0,lte=1"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document, applies defaults and validates it.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MinimumScore == nil {
		v := DefaultMinimumScore
		c.MinimumScore = &v
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultBurst
	}

	if c.Judge.Provider == "" {
		c.Judge.Provider = ProviderGemini
	}
	if c.Judge.Provider == ProviderGemini {
		if c.Judge.Model == "" {
			c.Judge.Model = DefaultJudgeModel
		}
		if c.Judge.Location == "" {
			c.Judge.Location = DefaultLocation
		}
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderGemini
	}
	if c.Embedding.Provider == ProviderGemini && c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModel
	}

	if c.Moderation.Threshold == nil {
		v := DefaultModerationLimit
		c.Moderation.Threshold = &v
	}
}

// MinScore returns the configured default minimum score.
func (c *Config) MinScore() float64 {
	return *c.MinimumScore
}

// APIKey reads the judge API key from the environment variable named by APIKeyEnv.
func (j Judge) APIKey() (string, error) {
	return readKey(j.APIKeyEnv)
}

// APIKey reads the embedding API key from the environment variable named by APIKeyEnv.
func (e Embedding) APIKey() (string, error) {
	return readKey(e.APIKeyEnv)
}

// ErrMissingAPIKey is returned when the configured API key variable is unset or empty.
var ErrMissingAPIKey = errors.New("API key environment variable is not set")

func readKey(env string) (string, error) {
	if env == "" {
		return "", nil
	}
	key := os.Getenv(env)
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingAPIKey, env)
	}
	return key, nil
}
