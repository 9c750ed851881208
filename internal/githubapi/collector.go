// Package githubapi collects raw repository signals from the GitHub REST
// API: metadata, languages, per-author commit history, contributor count,
// README, manifest files, and a filtered file tree. Sub-fetches degrade to
// defaults where the analysis can proceed without them; only metadata and
// language failures abort a collection.
package githubapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/sync/errgroup"

	"github.com/gitsight/gitsight/internal/stats"
)

const (
	commitsPerPage = 100
	maxCommitPages = 10 // hard cap of 1000 commits per analysis
)

// configFileNames is the fixed list of manifest/config files fetched from
// the repository root. Part of the observable contract: these are what the
// model sees.
var configFileNames = []string{
	"package.json",
	"composer.json",
	"requirements.txt",
	"Pipfile",
	"pyproject.toml",
	"Cargo.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
	"Gemfile",
	"Makefile",
	"Dockerfile",
	".env.example",
}

// RepositoryData holds everything the analysis pipeline needs about one
// repository. Owned exclusively by the request that created it.
type RepositoryData struct {
	GitStats      stats.GitStats
	ConfigFiles   map[string]string
	Readme        string // empty when the repository has no readable README
	FileStructure []string
	RepoName      string
}

// Collector fetches repository data for analysis. Safe for reuse across
// sequential requests; it holds no per-request state.
type Collector struct {
	client *github.Client
}

// NewCollector returns a Collector authenticated with the given token. An
// empty token yields an unauthenticated client.
func NewCollector(token string) *Collector {
	return &Collector{client: newGitHubClient(token)}
}

func newCollectorWithClient(client *github.Client) *Collector {
	return &Collector{client: client}
}

// FetchRepositoryData collects all signals for the given repository
// reference and contributing username. Metadata and language failures are
// fatal; contributor count, README, individual config files, and the file
// tree degrade to defaults.
func (c *Collector) FetchRepositoryData(ctx context.Context, repoRef, username string) (*RepositoryData, error) {
	ref, err := ParseRepoRef(repoRef)
	if err != nil {
		return nil, err
	}

	slog.Info("fetching repository data", "repo", ref.String(), "user", username)

	var (
		languages    map[string]int
		commitDates  []time.Time
		contributors int
		readme       string
		configs      map[string]string
		tree         []string
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, _, err := c.client.Repositories.Get(gCtx, ref.Owner, ref.Name); err != nil {
			return wrapAPIError(err)
		}
		return nil
	})

	g.Go(func() error {
		langs, _, err := c.client.Repositories.ListLanguages(gCtx, ref.Owner, ref.Name)
		if err != nil {
			return wrapAPIError(err)
		}
		languages = langs
		return nil
	})

	g.Go(func() error {
		commitDates = c.fetchCommitDates(gCtx, ref, username)
		return nil
	})

	g.Go(func() error {
		contributors = c.fetchContributorCount(gCtx, ref)
		return nil
	})

	g.Go(func() error {
		readme = c.fetchReadme(gCtx, ref)
		return nil
	})

	g.Go(func() error {
		configs = c.fetchConfigFiles(gCtx, ref)
		return nil
	})

	g.Go(func() error {
		tree = c.fetchFileTree(gCtx, ref)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	gs := stats.Compute(commitDates, languages, contributors)
	slog.Info("repository data collected",
		"repo", ref.String(),
		"commits", gs.TotalCommits,
		"duration_days", gs.ProjectDurationDays,
		"config_files", len(configs),
		"tree_files", len(tree),
	)

	return &RepositoryData{
		GitStats:      gs,
		ConfigFiles:   configs,
		Readme:        readme,
		FileStructure: tree,
		RepoName:      ref.Name,
	}, nil
}

// fetchCommitDates pages through the user's commits in author-date order as
// returned by the API. Pagination stops at the page cap, on the first short
// page, on HTTP 409 (empty repository), or on any other page failure -
// partial history is used as-is, never reported as an error.
func (c *Collector) fetchCommitDates(ctx context.Context, ref RepoRef, username string) []time.Time {
	var dates []time.Time
	for page := 1; page <= maxCommitPages; page++ {
		opts := &github.CommitsListOptions{
			Author:      username,
			ListOptions: github.ListOptions{PerPage: commitsPerPage, Page: page},
		}
		commits, resp, err := c.client.Repositories.ListCommits(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusConflict {
				// Empty repository.
				break
			}
			slog.Warn("could not fetch commits page", "repo", ref.String(), "page", page, "error", err)
			break
		}
		for _, cm := range commits {
			dates = append(dates, cm.GetCommit().GetAuthor().GetDate().Time)
		}
		if len(commits) < commitsPerPage {
			break
		}
	}
	return dates
}

// fetchContributorCount derives the contributor total from the pagination
// header when present, falling back to the response body length. Defaults
// to 1 on failure.
func (c *Collector) fetchContributorCount(ctx context.Context, ref RepoRef) int {
	opts := &github.ListContributorsOptions{
		Anon:        "true",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	contributors, resp, err := c.client.Repositories.ListContributors(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		slog.Debug("could not fetch contributors", "repo", ref.String(), "error", err)
		return 1
	}
	if resp.LastPage > 0 {
		return resp.LastPage
	}
	return len(contributors)
}

func (c *Collector) fetchReadme(ctx context.Context, ref RepoRef) string {
	readme, _, err := c.client.Repositories.GetReadme(ctx, ref.Owner, ref.Name, nil)
	if err != nil {
		slog.Debug("no readme", "repo", ref.String(), "error", err)
		return ""
	}
	content, err := readme.GetContent()
	if err != nil {
		slog.Debug("could not decode readme", "repo", ref.String(), "error", err)
		return ""
	}
	return content
}

// fetchConfigFiles requests every candidate manifest in parallel. Missing or
// unreadable files are simply absent from the result, never an error.
func (c *Collector) fetchConfigFiles(ctx context.Context, ref RepoRef) map[string]string {
	configs := make(map[string]string)
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range configFileNames {
		g.Go(func() error {
			fileContent, _, _, err := c.client.Repositories.GetContents(gCtx, ref.Owner, ref.Name, name, nil)
			if err != nil || fileContent == nil {
				return nil
			}
			content, err := fileContent.GetContent()
			if err != nil {
				return nil
			}
			mu.Lock()
			configs[name] = content
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors
	return configs
}

func (c *Collector) fetchFileTree(ctx context.Context, ref RepoRef) []string {
	tree, _, err := c.client.Git.GetTree(ctx, ref.Owner, ref.Name, "HEAD", true)
	if err != nil {
		slog.Debug("could not fetch file tree", "repo", ref.String(), "error", err)
		return nil
	}
	return filterTreePaths(tree.Entries)
}
