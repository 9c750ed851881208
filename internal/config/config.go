package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gitsight/gitsight/internal/llm"
)

// Default model per provider, used when no explicit model is configured.
const (
	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-3-5-sonnet-20241022"
	defaultGeminiModel    = "gemini-2.0-flash-exp"
)

// MissingKeysError reports every required configuration key that is absent
// for the selected provider.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "AI configuration error: missing " + strings.Join(e.Keys, ", ")
}

// Config holds all runtime configuration for gitsight. It is populated
// explicitly and passed into constructors; no component reads the process
// environment on its own.
type Config struct {
	GitHubToken string

	Provider llm.ProviderName

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string

	GeminiAPIKey string
	GeminiModel  string

	DBPath  string
	Verbose bool
}

// LoadFromEnv populates environment-dependent fields. Empty provider falls
// back to openai; alias names (claude, google) are normalized.
func (c *Config) LoadFromEnv() {
	c.GitHubToken = os.Getenv("GITHUB_TOKEN")

	if c.Provider == "" {
		c.Provider = llm.ProviderName(os.Getenv("GITSIGHT_PROVIDER"))
	}
	if c.Provider == "" {
		c.Provider = llm.ProviderOpenAI
	}
	c.Provider = llm.Normalize(string(c.Provider))

	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	if c.OpenAIModel == "" {
		c.OpenAIModel = os.Getenv("OPENAI_MODEL")
	}

	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if c.AnthropicModel == "" {
		c.AnthropicModel = os.Getenv("ANTHROPIC_MODEL")
	}

	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if c.GeminiModel == "" {
		c.GeminiModel = os.Getenv("GEMINI_MODEL")
	}

	if c.DBPath == "" {
		c.DBPath = os.Getenv("GITSIGHT_DB")
	}
	if c.DBPath == "" {
		c.DBPath = "gitsight.db"
	}

	c.applyModelDefaults()
}

func (c *Config) applyModelDefaults() {
	if c.OpenAIModel == "" {
		c.OpenAIModel = defaultOpenAIModel
	}
	if c.AnthropicModel == "" {
		c.AnthropicModel = defaultAnthropicModel
	}
	if c.GeminiModel == "" {
		c.GeminiModel = defaultGeminiModel
	}
}

// Validate checks that the selected provider is known and that every
// credential it requires is present. All missing keys are reported at once.
func (c *Config) Validate() error {
	var missing []string
	switch c.Provider {
	case llm.ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("%w: %s", llm.ErrUnsupportedProvider, c.Provider)
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

// ProviderConfig returns the llm.ProviderConfig for the selected provider.
func (c *Config) ProviderConfig() llm.ProviderConfig {
	cfg := llm.ProviderConfig{Name: c.Provider}
	switch c.Provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = c.OpenAIAPIKey
		cfg.Model = c.OpenAIModel
		cfg.BaseURL = c.OpenAIBaseURL
	case llm.ProviderAnthropic:
		cfg.APIKey = c.AnthropicAPIKey
		cfg.Model = c.AnthropicModel
	case llm.ProviderGemini:
		cfg.APIKey = c.GeminiAPIKey
		cfg.Model = c.GeminiModel
	}
	return cfg
}

// Model returns the model name that will be used for the selected provider.
func (c *Config) Model() string {
	return c.ProviderConfig().Model
}
