package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gitsight/gitsight/internal/stats"
	"github.com/gitsight/gitsight/internal/textutil"
)

// Truncation limits for the analysis context. Part of the observable
// contract for what the model sees.
const (
	maxConfigFileLen  = 1500
	maxReadmeLen      = 3000
	maxTreePaths      = 50
	maxLanguagesShown = 10
)

// BuildAnalysisContext renders collected repository data into the single
// text document sent to the model. Pure and idempotent: identical inputs
// produce a byte-identical string. Sections with no source data are omitted
// entirely.
func BuildAnalysisContext(repoName string, gs stats.GitStats, configFiles map[string]string, readme string, fileStructure []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Repository: %s\n\n", repoName)

	b.WriteString("## Git Statistics\n")
	fmt.Fprintf(&b, "- Total Commits: %d\n", gs.TotalCommits)
	fmt.Fprintf(&b, "- Lines Added: %d\n", gs.LinesAdded)
	fmt.Fprintf(&b, "- Lines Deleted: %d\n", gs.LinesDeleted)
	fmt.Fprintf(&b, "- Files Changed: %d\n", gs.FilesChanged)
	fmt.Fprintf(&b, "- Project Duration: %d days\n", gs.ProjectDurationDays)
	if gs.FirstCommitDate != nil {
		fmt.Fprintf(&b, "- First Commit: %s\n", gs.FirstCommitDate.Format(time.RFC3339))
	}
	if gs.LastCommitDate != nil {
		fmt.Fprintf(&b, "- Last Commit: %s\n", gs.LastCommitDate.Format(time.RFC3339))
	}
	if gs.Contributors > 0 {
		fmt.Fprintf(&b, "- Contributors: %d\n", gs.Contributors)
	}

	if len(gs.Languages) > 0 {
		b.WriteString("\n## Languages\n")
		for _, lang := range topLanguages(gs.Languages, maxLanguagesShown) {
			fmt.Fprintf(&b, "- %s: %dKB\n", lang, kilobytes(gs.Languages[lang]))
		}
	}

	if len(configFiles) > 0 {
		b.WriteString("\n## Config Files\n")
		names := make([]string, 0, len(configFiles))
		for name := range configFiles {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			content := textutil.Truncate(configFiles[name], maxConfigFileLen, "\n[... truncated ...]")
			fmt.Fprintf(&b, "\n### %s\n```\n%s\n```\n", name, content)
		}
	}

	if readme != "" {
		truncated := textutil.Truncate(readme, maxReadmeLen, "\n\n[... truncated ...]")
		b.WriteString("\n## README.md\n")
		fmt.Fprintf(&b, "```markdown\n%s\n```\n", truncated)
	}

	if len(fileStructure) > 0 {
		b.WriteString("\n## File Structure (sample)\n")
		sample := fileStructure
		if len(sample) > maxTreePaths {
			sample = sample[:maxTreePaths]
		}
		for _, path := range sample {
			fmt.Fprintf(&b, "- %s\n", path)
		}
		if rest := len(fileStructure) - maxTreePaths; rest > 0 {
			fmt.Fprintf(&b, "- ... and %d more files\n", rest)
		}
	}

	return b.String()
}

// topLanguages returns up to n language names sorted by byte count
// descending, name ascending on ties so ordering is stable.
func topLanguages(languages map[string]int, n int) []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func kilobytes(b int) int {
	return int(float64(b)/1024 + 0.5)
}
