package llm

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, apiKey, model string) (*geminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Name() ProviderName { return ProviderGemini }

func (p *geminiProvider) Generate(ctx context.Context, system, prompt string) (string, error) {
	// Gemini has no separate system role for single-turn generation, so the
	// system prompt is concatenated ahead of the user content.
	full := system + "\n\n" + prompt + jsonOnlyReminder
	temp := float32(temperature)

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{
			Temperature:      &temp,
			MaxOutputTokens:  maxOutputTokens,
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
