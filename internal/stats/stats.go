// Package stats derives per-contributor repository statistics from commit
// history. Because the GitHub API does not expose authored line-diff totals
// cheaply, line counts are estimated from commit counts with fixed ratios;
// they are approximations, not measurements, and the constants are part of
// the observable contract.
package stats

import (
	"math"
	"sort"
	"time"
)

// Fixed estimation constants. Changing any of these changes user-visible
// numbers and is a breaking change.
const (
	avgLinesPerCommit = 50
	addedShare        = 0.6
	deletedShare      = 0.4
	filesPerCommit    = 3
)

// GitStats holds derived statistics for one user's contribution to a
// repository. Immutable once built; computed fresh per request.
type GitStats struct {
	TotalCommits        int            `json:"total_commits"`
	LinesAdded          int            `json:"lines_added"`
	LinesDeleted        int            `json:"lines_deleted"`
	LinesChanged        int            `json:"lines_changed"`
	FilesChanged        int            `json:"files_changed"`
	FirstCommitDate     *time.Time     `json:"first_commit_date,omitempty"`
	LastCommitDate      *time.Time     `json:"last_commit_date,omitempty"`
	ProjectDurationDays int            `json:"project_duration_days"`
	Languages           map[string]int `json:"languages,omitempty"`
	Contributors        int            `json:"contributors,omitempty"`
}

// Compute builds GitStats from the author's commit dates plus the
// repository's language byte counts and contributor count. commitDates need
// not be pre-sorted; they are sorted ascending (stable, so fetch order
// breaks ties) before first/last extraction.
func Compute(commitDates []time.Time, languages map[string]int, contributors int) GitStats {
	dates := make([]time.Time, len(commitDates))
	copy(dates, commitDates)
	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	total := len(dates)
	estimated := total * avgLinesPerCommit

	gs := GitStats{
		TotalCommits: total,
		LinesAdded:   int(math.Round(float64(estimated) * addedShare)),
		LinesDeleted: int(math.Round(float64(estimated) * deletedShare)),
		LinesChanged: estimated,
		FilesChanged: int(math.Round(float64(total) * filesPerCommit)),
		Languages:    languages,
		Contributors: contributors,
	}

	if total > 0 {
		first := dates[0]
		last := dates[total-1]
		gs.FirstCommitDate = &first
		gs.LastCommitDate = &last
		gs.ProjectDurationDays = durationDays(first, last)
	}
	return gs
}

// durationDays returns ceil(last-first in days), 0 when last is not after
// first.
func durationDays(first, last time.Time) int {
	diff := last.Sub(first)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
