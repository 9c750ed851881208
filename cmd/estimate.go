package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitsight/gitsight/internal/analyzer"
	"github.com/gitsight/gitsight/internal/githubapi"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <repo-url> <github-username>",
	Short: "Estimate the token and credit cost of an analysis without calling the model.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collector := githubapi.NewCollector(cfg.GitHubToken)
		data, err := collector.FetchRepositoryData(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		estimate := analyzer.EstimateCost(data.RepoName, data.GitStats, data.ConfigFiles, data.Readme, data.FileStructure)
		return printJSON(estimate)
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}
