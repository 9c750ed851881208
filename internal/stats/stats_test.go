package stats

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCompute_Empty(t *testing.T) {
	gs := Compute(nil, nil, 1)

	if gs.TotalCommits != 0 {
		t.Errorf("TotalCommits = %d, want 0", gs.TotalCommits)
	}
	if gs.ProjectDurationDays != 0 {
		t.Errorf("ProjectDurationDays = %d, want 0", gs.ProjectDurationDays)
	}
	if gs.LinesAdded != 0 || gs.LinesDeleted != 0 || gs.FilesChanged != 0 {
		t.Errorf("expected zero line estimates, got +%d/-%d files=%d",
			gs.LinesAdded, gs.LinesDeleted, gs.FilesChanged)
	}
	if gs.FirstCommitDate != nil || gs.LastCommitDate != nil {
		t.Error("expected absent commit dates")
	}
}

func TestCompute_Estimates(t *testing.T) {
	tests := []struct {
		commits     int
		wantAdded   int
		wantDeleted int
		wantChanged int
		wantFiles   int
	}{
		{0, 0, 0, 0, 0},
		{1, 30, 20, 50, 3},
		{7, 210, 140, 350, 21},
		{100, 3000, 2000, 5000, 300},
		{600, 18000, 12000, 30000, 1800},
	}
	for _, tt := range tests {
		dates := make([]time.Time, tt.commits)
		base := date("2024-01-01T00:00:00Z")
		for i := range dates {
			dates[i] = base.Add(time.Duration(i) * time.Hour)
		}
		gs := Compute(dates, nil, 1)
		if gs.LinesAdded != tt.wantAdded {
			t.Errorf("commits=%d LinesAdded = %d, want %d", tt.commits, gs.LinesAdded, tt.wantAdded)
		}
		if gs.LinesDeleted != tt.wantDeleted {
			t.Errorf("commits=%d LinesDeleted = %d, want %d", tt.commits, gs.LinesDeleted, tt.wantDeleted)
		}
		if gs.LinesChanged != tt.wantChanged {
			t.Errorf("commits=%d LinesChanged = %d, want %d", tt.commits, gs.LinesChanged, tt.wantChanged)
		}
		if gs.FilesChanged != tt.wantFiles {
			t.Errorf("commits=%d FilesChanged = %d, want %d", tt.commits, gs.FilesChanged, tt.wantFiles)
		}
		if gs.LinesAdded+gs.LinesDeleted != gs.LinesChanged {
			t.Errorf("commits=%d added+deleted=%d != changed=%d",
				tt.commits, gs.LinesAdded+gs.LinesDeleted, gs.LinesChanged)
		}
	}
}

func TestCompute_Duration(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  int
	}{
		{"same instant", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", 0},
		{"partial day rounds up", "2024-01-01T00:00:00Z", "2024-01-01T06:00:00Z", 1},
		{"exact days", "2024-01-01T00:00:00Z", "2024-01-11T00:00:00Z", 10},
		{"400 days", "2023-01-01T00:00:00Z", "2024-02-05T00:00:00Z", 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := Compute([]time.Time{date(tt.first), date(tt.last)}, nil, 1)
			if gs.ProjectDurationDays != tt.want {
				t.Errorf("ProjectDurationDays = %d, want %d", gs.ProjectDurationDays, tt.want)
			}
		})
	}
}

func TestCompute_SortsUnorderedDates(t *testing.T) {
	dates := []time.Time{
		date("2024-03-01T00:00:00Z"),
		date("2024-01-01T00:00:00Z"),
		date("2024-02-01T00:00:00Z"),
	}
	gs := Compute(dates, nil, 1)

	if got := gs.FirstCommitDate.Format(time.RFC3339); got != "2024-01-01T00:00:00Z" {
		t.Errorf("FirstCommitDate = %s", got)
	}
	if got := gs.LastCommitDate.Format(time.RFC3339); got != "2024-03-01T00:00:00Z" {
		t.Errorf("LastCommitDate = %s", got)
	}
	// Input slice must not be mutated.
	if !dates[0].Equal(date("2024-03-01T00:00:00Z")) {
		t.Error("Compute mutated its input")
	}
}

func TestCompute_CarriesLanguagesAndContributors(t *testing.T) {
	langs := map[string]int{"Go": 1024, "Makefile": 64}
	gs := Compute([]time.Time{date("2024-01-01T00:00:00Z")}, langs, 4)

	if gs.Contributors != 4 {
		t.Errorf("Contributors = %d, want 4", gs.Contributors)
	}
	if gs.Languages["Go"] != 1024 {
		t.Errorf("Languages[Go] = %d", gs.Languages["Go"])
	}
}
