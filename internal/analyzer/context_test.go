package analyzer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gitsight/gitsight/internal/stats"
)

func sampleStats(t *testing.T) stats.GitStats {
	t.Helper()
	first := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	last := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	return stats.GitStats{
		TotalCommits:        120,
		LinesAdded:          3600,
		LinesDeleted:        2400,
		LinesChanged:        6000,
		FilesChanged:        360,
		FirstCommitDate:     &first,
		LastCommitDate:      &last,
		ProjectDurationDays: 51,
		Languages:           map[string]int{"Go": 204800, "Makefile": 1024, "Shell": 2048},
		Contributors:        3,
	}
}

func TestBuildAnalysisContextIdempotent(t *testing.T) {
	gs := sampleStats(t)
	configs := map[string]string{"go.mod": "module example.com/x", "Dockerfile": "FROM golang:1.24"}
	files := []string{"main.go", "internal/app/app.go"}

	a := BuildAnalysisContext("acme/api", gs, configs, "# API\nDocs.", files)
	b := BuildAnalysisContext("acme/api", gs, configs, "# API\nDocs.", files)
	if a != b {
		t.Fatal("identical inputs produced different context documents")
	}
}

func TestBuildAnalysisContextSections(t *testing.T) {
	gs := sampleStats(t)
	got := BuildAnalysisContext("acme/api", gs, map[string]string{"go.mod": "module example.com/x"}, "# API", []string{"main.go"})

	for _, want := range []string{
		"## Repository: acme/api\n",
		"- Total Commits: 120\n",
		"- Lines Added: 3600\n",
		"- Project Duration: 51 days\n",
		"- First Commit: 2025-01-10T09:00:00Z\n",
		"- Contributors: 3\n",
		"\n## Languages\n- Go: 200KB\n- Shell: 2KB\n- Makefile: 1KB\n",
		"\n### go.mod\n```\nmodule example.com/x\n```\n",
		"\n## README.md\n```markdown\n# API\n```\n",
		"\n## File Structure (sample)\n- main.go\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q\n%s", want, got)
		}
	}
}

func TestBuildAnalysisContextOmitsEmptySections(t *testing.T) {
	got := BuildAnalysisContext("acme/empty", stats.GitStats{}, nil, "", nil)
	for _, header := range []string{"## Languages", "## Config Files", "## README.md", "## File Structure"} {
		if strings.Contains(got, header) {
			t.Errorf("context contains %q for empty inputs", header)
		}
	}
	if !strings.Contains(got, "- Total Commits: 0\n") {
		t.Errorf("git statistics section missing:\n%s", got)
	}
}

func TestBuildAnalysisContextTruncation(t *testing.T) {
	longConfig := strings.Repeat("a", 2000)
	longReadme := strings.Repeat("b", 4000)
	got := BuildAnalysisContext("acme/big", stats.GitStats{}, map[string]string{"package.json": longConfig}, longReadme, nil)

	wantConfig := strings.Repeat("a", 1500) + "\n[... truncated ...]"
	if !strings.Contains(got, wantConfig) {
		t.Error("config file not truncated at 1500 bytes with marker")
	}
	if strings.Contains(got, strings.Repeat("a", 1501)) {
		t.Error("config file exceeds 1500 bytes")
	}
	wantReadme := strings.Repeat("b", 3000) + "\n\n[... truncated ...]"
	if !strings.Contains(got, wantReadme) {
		t.Error("readme not truncated at 3000 bytes with marker")
	}
}

func TestBuildAnalysisContextFileSample(t *testing.T) {
	files := make([]string, 57)
	for i := range files {
		files[i] = fmt.Sprintf("pkg/file%02d.go", i)
	}
	got := BuildAnalysisContext("acme/many", stats.GitStats{}, nil, "", files)

	if !strings.Contains(got, "- pkg/file49.go\n") {
		t.Error("50th path missing from sample")
	}
	if strings.Contains(got, "- pkg/file50.go\n") {
		t.Error("51st path should be summarized, not listed")
	}
	if !strings.Contains(got, "- ... and 7 more files\n") {
		t.Errorf("remainder summary missing:\n%s", got)
	}
}
