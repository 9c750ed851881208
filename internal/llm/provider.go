package llm

import (
	"context"
	"errors"
	"fmt"
)

// ProviderName identifies a supported LLM provider.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGemini    ProviderName = "gemini"
)

// ErrUnsupportedProvider is returned when a provider name is not recognized.
var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// Analysis calls are deliberately deterministic-leaning and bounded: low
// temperature, fixed output budget. These are part of the analysis contract,
// not tuning knobs.
const (
	temperature     = 0.3
	maxOutputTokens = 4000
)

// jsonOnlyReminder is appended to the user prompt for providers without a
// structured-output mode.
const jsonOnlyReminder = "\n\nRespond with a valid JSON object only."

// ProviderConfig holds the configuration needed to construct a Provider.
type ProviderConfig struct {
	Name   ProviderName
	APIKey string
	Model  string
	// BaseURL points the OpenAI client at a compatible self-hosted endpoint.
	// Ignored by the other providers.
	BaseURL string
}

// Provider abstracts a single-turn LLM text generation backend. All
// implementations normalize their response shape to a plain string.
type Provider interface {
	Name() ProviderName
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Normalize maps provider name aliases to their canonical ProviderName.
func Normalize(name string) ProviderName {
	switch ProviderName(name) {
	case "claude":
		return ProviderAnthropic
	case "google":
		return ProviderGemini
	default:
		return ProviderName(name)
	}
}

// NewProvider creates a Provider for the given configuration. The provider
// is fixed for the lifetime of the returned value; selection happens here,
// not per call.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderOpenAI:
		return newOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	case ProviderGemini:
		return newGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Name)
	}
}
