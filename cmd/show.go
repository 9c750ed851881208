package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitsight/gitsight/internal/schema"
	"github.com/gitsight/gitsight/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <repo-url>",
	Short: "Show the analysis status and latest persisted analysis for a repository.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		repo, err := db.GetRepositoryByURL(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("repository %s has not been analyzed, run analyze first", args[0])
			}
			return err
		}

		out := showOutput{
			Repository: repositoryView{
				ID:           repo.ID,
				RepoURL:      repo.RepoURL,
				RepoName:     repo.RepoName,
				Status:       repo.Status,
				ErrorMessage: repo.ErrorMessage,
			},
		}

		analysis, err := db.LatestAnalysis(cmd.Context(), repo.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if analysis != nil {
			out.Analysis = &analysisView{
				ID:                  analysis.ID,
				ProjectScale:        analysis.Data.ProjectScale,
				TotalCommits:        analysis.GitStats.TotalCommits,
				LinesAdded:          analysis.GitStats.LinesAdded,
				LinesDeleted:        analysis.GitStats.LinesDeleted,
				LinesChanged:        analysis.GitStats.LinesAdded + analysis.GitStats.LinesDeleted,
				FilesChanged:        analysis.GitStats.FilesChanged,
				ProjectDurationDays: analysis.GitStats.ProjectDurationDays,
				TokensUsed:          analysis.TokensUsed,
				CreatedAt:           analysis.CreatedAt,
				Data:                analysis.Data,
			}
		}

		return printJSON(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

type showOutput struct {
	Repository repositoryView `json:"repository"`
	Analysis   *analysisView  `json:"analysis"`
}

type repositoryView struct {
	ID           int64  `json:"id"`
	RepoURL      string `json:"repo_url"`
	RepoName     string `json:"repo_name"`
	Status       string `json:"analysis_status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type analysisView struct {
	ID                  int64                       `json:"id"`
	ProjectScale        string                      `json:"project_scale"`
	TotalCommits        int                         `json:"total_commits"`
	LinesAdded          int                         `json:"lines_added"`
	LinesDeleted        int                         `json:"lines_deleted"`
	LinesChanged        int                         `json:"lines_changed"`
	FilesChanged        int                         `json:"files_changed"`
	ProjectDurationDays int                         `json:"project_duration_days"`
	TokensUsed          int                         `json:"tokens_used"`
	CreatedAt           time.Time                   `json:"created_at"`
	Data                *schema.ProjectAnalysisData `json:"analysis_data"`
}
