package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitsight/gitsight/internal/analyzer"
	"github.com/gitsight/gitsight/internal/githubapi"
	"github.com/gitsight/gitsight/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url> <github-username>",
	Short: "Run a full LLM analysis of one user's contribution to a repository.",
	Long: `Collects repository data from the GitHub API, runs the configured LLM
provider over it and persists the validated analysis. On failure the
repository is marked failed with the error message stored verbatim; a
failed attempt never persists a partial analysis.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, repoURL, username string) error {
	ref, err := githubapi.ParseRepoRef(repoURL)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repoID, err := db.UpsertRepository(ctx, repoURL, ref.String())
	if err != nil {
		return err
	}
	if err := db.SetStatus(ctx, repoID, store.StatusProcessing, ""); err != nil {
		return err
	}

	collector := githubapi.NewCollector(cfg.GitHubToken)
	data, err := collector.FetchRepositoryData(ctx, repoURL, username)
	if err != nil {
		return failAnalysis(ctx, db, repoID, err)
	}

	svc, err := analyzer.NewService(ctx, cfg)
	if err != nil {
		return failAnalysis(ctx, db, repoID, err)
	}

	result, err := svc.AnalyzeRepository(ctx, data.RepoName, data.GitStats, data.ConfigFiles, data.Readme, data.FileStructure, analyzer.Options{
		OnProgress: func(p analyzer.Progress) {
			slog.Info("analysis progress", "stage", p.Stage, "percentage", p.Percentage, "message", p.Message)
		},
	})
	if err != nil {
		return failAnalysis(ctx, db, repoID, err)
	}

	if err := db.ReplaceAnalysis(ctx, repoID, result, data.GitStats); err != nil {
		return failAnalysis(ctx, db, repoID, err)
	}
	if err := db.SetStatus(ctx, repoID, store.StatusCompleted, ""); err != nil {
		return err
	}

	metrics := svc.UsageMetrics()
	info := svc.ProviderInfo()
	slog.Info("analysis persisted",
		"repo", ref.String(),
		"provider", info.Provider,
		"model", info.Model,
		"tokens", metrics.LastCallTokens)

	return printJSON(result)
}

// failAnalysis records the terminal failure on the repository row and hands
// the original error back. The stored message is the error text verbatim.
func failAnalysis(ctx context.Context, db *store.Store, repoID int64, err error) error {
	if statusErr := db.SetStatus(ctx, repoID, store.StatusFailed, err.Error()); statusErr != nil {
		slog.Error("could not mark repository failed", "error", statusErr)
	}
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
