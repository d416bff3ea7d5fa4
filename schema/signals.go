package schema

import "time"

// TagInfo describes one Git tag with its creation time.
type TagInfo struct {
	Name    string
	Created time.Time
}

// PathActivity holds recent per-path Git activity used for node-level
// analytics and evidence signals.
type PathActivity struct {
	Commits int
	Authors map[string]int // author name -> commit count
}

// RepoSignals is the raw, ephemeral signal bundle for one repository scan.
// It is produced by the Git/filesystem collaborator and consumed by the
// classifier and synthesizer; classification never reaches outside of it.
type RepoSignals struct {
	RepoPath string
	Name     string
	Now      time.Time // reference clock; fixed per bundle for determinism

	TotalCommits       int
	CommitsLast14Days  int
	CommitsLast30Days  int
	CommitsLast180Days int
	LastCommit         time.Time
	RecentSubjects     []string // most recent commit subjects, newest first

	UnmergedWorkBranches []string // unmerged hotfix/* and bugfix/* branches
	WorkingTreeClean     bool
	Tags                 []TagInfo

	PrimaryLanguage string

	// Unavailable marks a bundle whose Git calls failed or timed out.
	// The classifier treats such bundles as zero-activity.
	Unavailable bool
}

// Activity maps repository-relative paths to their recent activity.
// Keys are file paths from the Git log; folding onto directories happens
// during synthesis.
type Activity map[string]PathActivity
