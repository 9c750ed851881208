// Package store persists repositories and their analyses in SQLite. A
// repository row tracks analysis status; re-analysis deletes the prior
// analysis rows before inserting the new one, so at most one analysis is
// current per repository.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gitsight/gitsight/internal/schema"
	"github.com/gitsight/gitsight/internal/stats"
)

// Repository analysis statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed repository and analysis store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and initializes the
// schema. Pass ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite allows a single writer; serialize all access.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS repositories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		repo_url TEXT NOT NULL UNIQUE,
		repo_name TEXT NOT NULL,
		analysis_status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS project_analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		repository_id INTEGER NOT NULL,
		document_name TEXT NOT NULL,
		project_scale TEXT NOT NULL,
		total_commits INTEGER NOT NULL,
		lines_added INTEGER NOT NULL,
		lines_deleted INTEGER NOT NULL,
		files_changed INTEGER NOT NULL,
		project_duration_days INTEGER NOT NULL,
		analysis_data TEXT NOT NULL,
		tokens_used INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (repository_id) REFERENCES repositories(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_repository ON project_analyses(repository_id);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertRepository registers a repository by URL and returns its row id.
// Existing rows keep their status; only the name is refreshed.
func (s *Store) UpsertRepository(ctx context.Context, repoURL, repoName string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO repositories (repo_url, repo_name, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(repo_url) DO UPDATE SET repo_name = excluded.repo_name, updated_at = excluded.updated_at`,
		repoURL, repoName, now)
	if err != nil {
		return 0, fmt.Errorf("upsert repository: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM repositories WHERE repo_url = ?`, repoURL).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup repository id: %w", err)
	}
	return id, nil
}

// SetStatus updates a repository's analysis status. errMsg is stored
// verbatim for failed states and should be empty otherwise.
func (s *Store) SetStatus(ctx context.Context, repoID int64, status, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE repositories SET analysis_status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, errMsg, now, repoID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("repository %d: %w", repoID, ErrNotFound)
	}
	return nil
}

// Repository is one row of the repositories table.
type Repository struct {
	ID           int64
	RepoURL      string
	RepoName     string
	Status       string
	ErrorMessage string
}

// GetRepository loads a repository row by id.
func (s *Store) GetRepository(ctx context.Context, repoID int64) (*Repository, error) {
	return s.getRepository(ctx, `id = ?`, repoID)
}

// GetRepositoryByURL loads a repository row by its unique URL.
func (s *Store) GetRepositoryByURL(ctx context.Context, repoURL string) (*Repository, error) {
	return s.getRepository(ctx, `repo_url = ?`, repoURL)
}

func (s *Store) getRepository(ctx context.Context, where string, arg any) (*Repository, error) {
	var r Repository
	err := s.db.QueryRowContext(ctx,
		`SELECT id, repo_url, repo_name, analysis_status, error_message FROM repositories WHERE `+where,
		arg).Scan(&r.ID, &r.RepoURL, &r.RepoName, &r.Status, &r.ErrorMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("repository %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load repository: %w", err)
	}
	return &r, nil
}

// Analysis is one persisted analysis row. Data is the full validated
// payload; the numeric columns are denormalized from it for querying.
type Analysis struct {
	ID           int64
	RepositoryID int64
	Data         *schema.ProjectAnalysisData
	GitStats     stats.GitStats
	TokensUsed   int
	CreatedAt    time.Time
}

// ReplaceAnalysis deletes any prior analyses for the repository and inserts
// the new one in a single transaction. There is no upsert-merge.
func (s *Store) ReplaceAnalysis(ctx context.Context, repoID int64, data *schema.ProjectAnalysisData, gs stats.GitStats) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_analyses WHERE repository_id = ?`, repoID); err != nil {
		return fmt.Errorf("delete old analyses: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO project_analyses (
			repository_id, document_name, project_scale,
			total_commits, lines_added, lines_deleted, files_changed, project_duration_days,
			analysis_data, tokens_used, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		repoID, data.DocumentName, data.ProjectScale,
		gs.TotalCommits, gs.LinesAdded, gs.LinesDeleted, gs.FilesChanged, gs.ProjectDurationDays,
		string(payload), data.ActualTokens, now)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	return tx.Commit()
}

// LatestAnalysis returns the most recent analysis for a repository, or
// ErrNotFound when none exists.
func (s *Store) LatestAnalysis(ctx context.Context, repoID int64) (*Analysis, error) {
	var (
		a       Analysis
		payload string
		created string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, repository_id,
			total_commits, lines_added, lines_deleted, files_changed, project_duration_days,
			analysis_data, tokens_used, created_at
		FROM project_analyses WHERE repository_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`,
		repoID).Scan(&a.ID, &a.RepositoryID,
		&a.GitStats.TotalCommits, &a.GitStats.LinesAdded, &a.GitStats.LinesDeleted,
		&a.GitStats.FilesChanged, &a.GitStats.ProjectDurationDays,
		&payload, &a.TokensUsed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis for repository %d: %w", repoID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}

	a.Data = &schema.ProjectAnalysisData{}
	if err := json.Unmarshal([]byte(payload), a.Data); err != nil {
		return nil, fmt.Errorf("unmarshal analysis payload: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		a.CreatedAt = t
	}
	return &a, nil
}
