package analyzer

import (
	"fmt"
	"sort"

	"github.com/gitsight/gitsight/internal/stats"
)

// Fixed estimation weights. These feed user-visible credit numbers, so they
// are contract, not tuning knobs.
const (
	basePromptTokens     = 2000
	tokensPerCommit      = 10
	commitTokensCap      = 2000
	tokensPerConfigFile  = 300
	readmeTokensCap      = 1000
	tokensPerTreePath    = 5
	treeTokensCap        = 500
	estimatedOutputFixed = 2000
	tokensPerCredit      = 1000
)

// CostEstimate is the result of a pre-analysis cost check. No model call is
// made to produce it.
type CostEstimate struct {
	RepoName string `json:"repo_name"`

	EstimatedInputTokens  int `json:"estimated_input_tokens"`
	EstimatedOutputTokens int `json:"estimated_output_tokens"`
	EstimatedTotalTokens  int `json:"estimated_total_tokens"`
	EstimatedCredits      int `json:"estimated_credits"`

	ProjectScale        string   `json:"project_scale"`
	TotalCommits        int      `json:"total_commits"`
	ProjectDurationDays int      `json:"project_duration_days"`
	ConfigFiles         []string `json:"config_files"`
	HasReadme           bool     `json:"has_readme"`
	FileCount           int      `json:"file_count"`
	Languages           []string `json:"languages"`

	Message string `json:"message"`
}

// EstimateCost computes an approximate token and credit cost for analyzing
// a repository from already-collected data. Pure function: identical inputs
// always yield identical estimates.
func EstimateCost(repoName string, gs stats.GitStats, configFiles map[string]string, readme string, fileStructure []string) CostEstimate {
	commitTokens := capTokens(gs.TotalCommits*tokensPerCommit, commitTokensCap)
	configTokens := len(configFiles) * tokensPerConfigFile
	readmeTokens := 0
	if readme != "" {
		readmeTokens = capTokens(len(readme)/4, readmeTokensCap)
	}
	treeTokens := capTokens(len(fileStructure)*tokensPerTreePath, treeTokensCap)

	input := basePromptTokens + commitTokens + configTokens + readmeTokens + treeTokens
	total := input + estimatedOutputFixed
	credits := (total + tokensPerCredit - 1) / tokensPerCredit

	scale := scaleForCommits(gs.TotalCommits)

	configNames := make([]string, 0, len(configFiles))
	for name := range configFiles {
		configNames = append(configNames, name)
	}
	sort.Strings(configNames)

	return CostEstimate{
		RepoName:              repoName,
		EstimatedInputTokens:  input,
		EstimatedOutputTokens: estimatedOutputFixed,
		EstimatedTotalTokens:  total,
		EstimatedCredits:      credits,
		ProjectScale:          scale,
		TotalCommits:          gs.TotalCommits,
		ProjectDurationDays:   gs.ProjectDurationDays,
		ConfigFiles:           configNames,
		HasReadme:             readme != "",
		FileCount:             len(fileStructure),
		Languages:             topLanguages(gs.Languages, 5),
		Message:               fmt.Sprintf("Repository analysis will use approximately %d credits (~%d tokens). Project scale: %s.", credits, total, scale),
	}
}

// scaleForCommits buckets commit counts into a display scale. The model's
// own project_scale judgment is authoritative for the persisted analysis
// and may differ.
func scaleForCommits(commits int) string {
	switch {
	case commits > 500:
		return "enterprise"
	case commits > 150:
		return "large"
	case commits > 50:
		return "medium"
	case commits > 10:
		return "small"
	default:
		return "micro"
	}
}

func capTokens(n, max int) int {
	if n > max {
		return max
	}
	return n
}
