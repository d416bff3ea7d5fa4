// Package core has core logic for classification, synthesis and scanning.
package core

import (
	"regexp"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// Classification thresholds.
const (
	staleCutoff      = 180 * 24 * time.Hour // no activity beyond this means dormant
	tagRecencyWindow = 90 * 24 * time.Hour  // a tag within this window signals a release
	stagnantCommits  = 2                    // 30-day commit count at or below this signals stagnation
	subjectSample    = 3                    // newest subjects considered for maintenance detection
)

// workBranchRe matches unmerged branch names that indicate blocking work.
var workBranchRe = regexp.MustCompile(`^(hotfix|bugfix)/`)

// maintenanceRe matches conventional-commit subjects that indicate
// maintenance-only activity on an otherwise finished repository.
var maintenanceRe = regexp.MustCompile(`^(docs|chore|refactor)(\([^)]*\))?:`)

// Classify converts a raw signal bundle into a StatusValue. It is a pure
// function over the bundle: no clock reads, no randomness, no I/O.
func Classify(signals *schema.RepoSignals) schema.StatusValue {
	return ClassifyWithPrior(signals, nil)
}

// ClassifyWithPrior classifies a signal bundle, deriving the blocked-state
// progress from a prior status when one is known.
//
// Rules apply in priority order; the first match wins. Ambiguous
// repositories fall through to built/green, the historical optimistic
// default, kept for behavioral compatibility.
func ClassifyWithPrior(signals *schema.RepoSignals, prior *schema.StatusValue) schema.StatusValue {
	// Unavailable signals (Git failure, timeout) and fresh repositories with
	// zero commits are both treated as the no-activity case.
	if signals.Unavailable || signals.TotalCommits == 0 {
		return schema.NewStatusWithProgress(schema.StateBacklogged, 0)
	}

	// 1. Dormant: nothing in 30 days and the last commit is beyond the cutoff.
	if signals.CommitsLast30Days == 0 && signals.Now.Sub(signals.LastCommit) > staleCutoff {
		return schema.NewStatusWithProgress(schema.StateBacklogged, 0)
	}

	// 2. Blocked: unmerged hotfix/bugfix branches outstanding.
	if hasUnmergedWorkBranch(signals.UnmergedWorkBranches) {
		progress := schema.DefaultProgress(schema.StateBlocked)
		if prior != nil {
			progress = prior.Progress
		}
		return schema.NewStatusWithProgress(schema.StateBlocked, progress)
	}

	// 3. Stagnant: barely any commits over the trailing month.
	if signals.CommitsLast30Days <= stagnantCommits {
		return schema.NewStatus(schema.StateBlocked)
	}

	// 4. Released: clean tree, maintenance-only subjects, recent tag.
	if signals.WorkingTreeClean && isMaintenanceOnly(signals.RecentSubjects) && hasRecentTag(signals.Tags, signals.Now) {
		return schema.NewStatusWithProgress(schema.StateBuilt, 100)
	}

	// 5. Active: commits within the last two weeks.
	if signals.CommitsLast14Days >= 1 {
		return schema.NewStatus(schema.StateBuilding)
	}

	// 6. Optimistic fallback: no negative signal triggered.
	return schema.NewStatusWithProgress(schema.StateBuilt, 100)
}

// hasUnmergedWorkBranch reports whether any unmerged branch carries a
// hotfix/ or bugfix/ prefix.
func hasUnmergedWorkBranch(branches []string) bool {
	for _, b := range branches {
		if workBranchRe.MatchString(b) {
			return true
		}
	}
	return false
}

// isMaintenanceOnly reports whether the newest commit subjects all match the
// maintenance pattern. An empty subject list never qualifies.
func isMaintenanceOnly(subjects []string) bool {
	if len(subjects) == 0 {
		return false
	}
	sample := subjects
	if len(sample) > subjectSample {
		sample = sample[:subjectSample]
	}
	for _, s := range sample {
		if !maintenanceRe.MatchString(s) {
			return false
		}
	}
	return true
}

// hasRecentTag reports whether any tag was created within the recency window.
func hasRecentTag(tags []schema.TagInfo, now time.Time) bool {
	for _, t := range tags {
		if !t.Created.IsZero() && now.Sub(t.Created) <= tagRecencyWindow {
			return true
		}
	}
	return false
}
