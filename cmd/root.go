// Package cmd holds the gitsight command-line interface.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gitsight/gitsight/internal/config"
	"github.com/gitsight/gitsight/internal/llm"
)

var cfg = &config.Config{}

var (
	flagProvider string
	flagModel    string
	flagDB       string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "gitsight",
	Short: "Analyze GitHub repositories with an LLM.",
	Long: `gitsight collects commit history, languages, config files, the README and
the file tree of a GitHub repository, renders them into a bounded analysis
context and asks the configured LLM provider for a structured professional
analysis of one user's contribution.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: openai, anthropic, gemini (default: $GITSIGHT_PROVIDER or openai)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name (default: per-provider)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the SQLite database (default: $GITSIGHT_DB or gitsight.db)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose logging")
}

// setup resolves configuration in flag > environment > default order and
// installs the process-wide logger.
func setup(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	if flagProvider != "" {
		cfg.Provider = llm.Normalize(flagProvider)
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	cfg.Verbose = flagVerbose
	cfg.LoadFromEnv()

	if flagModel != "" {
		switch cfg.Provider {
		case llm.ProviderOpenAI:
			cfg.OpenAIModel = flagModel
		case llm.ProviderAnthropic:
			cfg.AnthropicModel = flagModel
		case llm.ProviderGemini:
			cfg.GeminiModel = flagModel
		}
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
