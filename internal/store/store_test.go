package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitsight/gitsight/internal/schema"
	"github.com/gitsight/gitsight/internal/stats"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleAnalysis(name string, tokens int) *schema.ProjectAnalysisData {
	return &schema.ProjectAnalysisData{
		DocumentName:    name,
		ProjectScale:    "small",
		ProjectOverview: "A tool.",
		KeyAchievements: []schema.Achievement{{Title: "CLI", Description: "Built it.", Category: "feature"}},
		TechnicalHighlights: schema.TechnicalHighlights{
			Frameworks: []string{},
			Libraries:  []string{"cobra"},
			Patterns:   []string{"subcommands"},
		},
		ResumePoints: []string{"Shipped a CLI"},
		GitInsights:  schema.GitInsights{CommitFrequency: "Weekly.", DevelopmentStyle: "Incremental."},
		ActualTokens: tokens,
	}
}

func TestUpsertRepositoryIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertRepository(ctx, "https://github.com/acme/tool", "acme/tool")
	require.NoError(t, err)

	id2, err := s.UpsertRepository(ctx, "https://github.com/acme/tool", "acme/tool-renamed")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	repo, err := s.GetRepository(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "acme/tool-renamed", repo.RepoName)
	assert.Equal(t, StatusPending, repo.Status)
}

func TestSetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertRepository(ctx, "https://github.com/acme/tool", "acme/tool")
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, id, StatusProcessing, ""))
	require.NoError(t, s.SetStatus(ctx, id, StatusFailed, "GitHub API error: 500"))

	repo, err := s.GetRepository(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, repo.Status)
	assert.Equal(t, "GitHub API error: 500", repo.ErrorMessage)

	err = s.SetStatus(ctx, 9999, StatusCompleted, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRepositoryByURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertRepository(ctx, "https://github.com/acme/tool", "acme/tool")
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, id, StatusCompleted, ""))

	repo, err := s.GetRepositoryByURL(ctx, "https://github.com/acme/tool")
	require.NoError(t, err)
	assert.Equal(t, id, repo.ID)
	assert.Equal(t, "acme/tool", repo.RepoName)
	assert.Equal(t, StatusCompleted, repo.Status)

	_, err = s.GetRepositoryByURL(ctx, "https://github.com/acme/unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceAnalysis(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertRepository(ctx, "https://github.com/acme/tool", "acme/tool")
	require.NoError(t, err)

	_, err = s.LatestAnalysis(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	gs := stats.GitStats{TotalCommits: 20, LinesAdded: 600, LinesDeleted: 400, FilesChanged: 60, ProjectDurationDays: 30}
	require.NoError(t, s.ReplaceAnalysis(ctx, id, sampleAnalysis("first", 1200), gs))
	require.NoError(t, s.ReplaceAnalysis(ctx, id, sampleAnalysis("second", 1500), gs))

	got, err := s.LatestAnalysis(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Data.DocumentName)
	assert.Equal(t, 1500, got.TokensUsed)
	assert.Equal(t, 20, got.GitStats.TotalCommits)
	assert.Equal(t, []string{"cobra"}, got.Data.TechnicalHighlights.Libraries)

	// old rows are deleted, not kept as history
	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM project_analyses WHERE repository_id = ?`, id).Scan(&count))
	assert.Equal(t, 1, count)
}
