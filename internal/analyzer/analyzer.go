// Package analyzer orchestrates the analysis pipeline: it renders collected
// repository data into a bounded context document, dispatches it to the
// configured model provider, and validates the response. It also provides
// the no-model cost estimator.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gitsight/gitsight/internal/config"
	"github.com/gitsight/gitsight/internal/llm"
	"github.com/gitsight/gitsight/internal/schema"
	"github.com/gitsight/gitsight/internal/stats"
)

// Progress is a fire-and-forget notification emitted before the model call.
type Progress struct {
	Stage      string `json:"stage"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

// Options carries per-call knobs for AnalyzeRepository.
type Options struct {
	OnProgress func(Progress)
}

// UsageMetrics are process-lifetime counters. They are observability only
// and never persisted.
type UsageMetrics struct {
	TotalTokensUsed int64 `json:"total_tokens_used"`
	TotalCalls      int64 `json:"total_calls"`
	TotalErrors     int64 `json:"total_errors"`
	LastCallTokens  int64 `json:"last_call_tokens"`
}

// ProviderInfo identifies the active provider and model.
type ProviderInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Service is the provider-agnostic analysis gateway. Provider and model are
// fixed at construction for the life of the instance; the usage counters
// are safe for concurrent updates.
type Service struct {
	provider llm.Provider
	model    string

	totalTokens    atomic.Int64
	totalCalls     atomic.Int64
	totalErrors    atomic.Int64
	lastCallTokens atomic.Int64
}

// NewService validates the configuration and constructs the client for the
// selected provider. Missing credentials surface as
// *config.MissingKeysError, an unknown provider as
// llm.ErrUnsupportedProvider.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(ctx, cfg.ProviderConfig())
	if err != nil {
		return nil, err
	}
	slog.Info("analysis service initialized", "provider", provider.Name(), "model", cfg.Model())
	return &Service{provider: provider, model: cfg.Model()}, nil
}

// AnalyzeRepository runs the full pipeline for already-collected repository
// data: build context, dispatch to the provider, validate, attach token
// accounting. Cancellation is checked once immediately before dispatch;
// failures are not retried.
func (s *Service) AnalyzeRepository(ctx context.Context, repoName string, gs stats.GitStats, configFiles map[string]string, readme string, fileStructure []string, opts Options) (*schema.ProjectAnalysisData, error) {
	slog.Info("starting repository analysis", "repo", repoName)
	start := time.Now()

	analysisContext := BuildAnalysisContext(repoName, gs, configFiles, readme, fileStructure)

	if opts.OnProgress != nil {
		opts.OnProgress(Progress{Stage: "analyzing", Percentage: 30, Message: "Analyzing repository structure..."})
	}

	if err := ctx.Err(); err != nil {
		s.totalErrors.Add(1)
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	raw, err := s.provider.Generate(ctx, systemPrompt, analysisContext)
	if err != nil {
		s.totalErrors.Add(1)
		return nil, fmt.Errorf("%s call failed: %w", s.provider.Name(), err)
	}

	data, err := schema.ParseAnalysis(raw)
	if err != nil {
		s.totalErrors.Add(1)
		return nil, err
	}

	marshaled, err := json.Marshal(data)
	if err != nil {
		s.totalErrors.Add(1)
		return nil, fmt.Errorf("marshaling validated analysis: %w", err)
	}
	tokens := estimateTokens(analysisContext) + estimateTokens(string(marshaled))
	data.ActualTokens = tokens
	s.trackUsage(int64(tokens), time.Since(start))

	slog.Info("repository analysis completed", "repo", repoName, "tokens", tokens)
	return data, nil
}

// estimateTokens applies the 4-characters-per-token heuristic. It is not a
// real tokenizer.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func (s *Service) trackUsage(tokens int64, elapsed time.Duration) {
	s.totalTokens.Add(tokens)
	s.totalCalls.Add(1)
	s.lastCallTokens.Store(tokens)
	slog.Debug("usage tracked", "tokens", tokens, "elapsed", elapsed, "total", s.totalTokens.Load())
}

// UsageMetrics returns a snapshot of the cumulative counters.
func (s *Service) UsageMetrics() UsageMetrics {
	return UsageMetrics{
		TotalTokensUsed: s.totalTokens.Load(),
		TotalCalls:      s.totalCalls.Load(),
		TotalErrors:     s.totalErrors.Load(),
		LastCallTokens:  s.lastCallTokens.Load(),
	}
}

// ProviderInfo reports the active provider and model.
func (s *Service) ProviderInfo() ProviderInfo {
	return ProviderInfo{Provider: string(s.provider.Name()), Model: s.model}
}
