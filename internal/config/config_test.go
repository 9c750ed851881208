package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/gitsight/gitsight/internal/llm"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid openai config",
			cfg:  Config{Provider: llm.ProviderOpenAI, OpenAIAPIKey: "sk-fake"},
		},
		{
			name: "valid anthropic config",
			cfg:  Config{Provider: llm.ProviderAnthropic, AnthropicAPIKey: "sk-ant-fake"},
		},
		{
			name: "valid gemini config",
			cfg:  Config{Provider: llm.ProviderGemini, GeminiAPIKey: "ai-fake"},
		},
		{
			name:    "openai missing api key",
			cfg:     Config{Provider: llm.ProviderOpenAI},
			wantErr: true,
		},
		{
			name:    "anthropic missing api key",
			cfg:     Config{Provider: llm.ProviderAnthropic, OpenAIAPIKey: "sk-fake"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "mystery", OpenAIAPIKey: "sk-fake"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingKeysNamed(t *testing.T) {
	cfg := Config{Provider: llm.ProviderGemini}
	err := cfg.Validate()

	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeysError, got %v", err)
	}
	if len(missing.Keys) != 1 || missing.Keys[0] != "GEMINI_API_KEY" {
		t.Errorf("Keys = %v, want [GEMINI_API_KEY]", missing.Keys)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error message %q does not name the missing key", err.Error())
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := Config{Provider: "mystery"}
	if err := cfg.Validate(); !errors.Is(err, llm.ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestProviderConfig(t *testing.T) {
	cfg := Config{
		Provider:        llm.ProviderOpenAI,
		OpenAIAPIKey:    "sk-fake",
		OpenAIModel:     "gpt-4o",
		OpenAIBaseURL:   "http://localhost:8080/v1",
		AnthropicAPIKey: "sk-ant-fake",
	}
	pc := cfg.ProviderConfig()
	if pc.Name != llm.ProviderOpenAI {
		t.Errorf("Name = %q", pc.Name)
	}
	if pc.APIKey != "sk-fake" || pc.Model != "gpt-4o" || pc.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("unexpected provider config: %+v", pc)
	}

	cfg.Provider = llm.ProviderAnthropic
	cfg.applyModelDefaults()
	pc = cfg.ProviderConfig()
	if pc.APIKey != "sk-ant-fake" {
		t.Errorf("anthropic APIKey = %q", pc.APIKey)
	}
	if pc.Model != defaultAnthropicModel {
		t.Errorf("anthropic Model = %q, want default %q", pc.Model, defaultAnthropicModel)
	}
	if pc.BaseURL != "" {
		t.Errorf("anthropic BaseURL should be empty, got %q", pc.BaseURL)
	}
}

func TestApplyModelDefaults(t *testing.T) {
	var cfg Config
	cfg.applyModelDefaults()
	if cfg.OpenAIModel != defaultOpenAIModel {
		t.Errorf("OpenAIModel = %q", cfg.OpenAIModel)
	}
	if cfg.AnthropicModel != defaultAnthropicModel {
		t.Errorf("AnthropicModel = %q", cfg.AnthropicModel)
	}
	if cfg.GeminiModel != defaultGeminiModel {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}

	cfg = Config{OpenAIModel: "gpt-4o-mini"}
	cfg.applyModelDefaults()
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("explicit model overwritten: %q", cfg.OpenAIModel)
	}
}
