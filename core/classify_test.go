package core

import (
	"testing"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// activeSignals returns a bundle that falls through to the active branch.
func activeSignals() *schema.RepoSignals {
	return &schema.RepoSignals{
		Name:               "demo",
		Now:                testNow,
		TotalCommits:       120,
		CommitsLast14Days:  3,
		CommitsLast30Days:  8,
		CommitsLast180Days: 40,
		LastCommit:         testNow.Add(-24 * time.Hour),
		WorkingTreeClean:   false,
	}
}

func TestClassifyStaleRepo(t *testing.T) {
	signals := &schema.RepoSignals{
		Now:               testNow,
		TotalCommits:      50,
		CommitsLast30Days: 0,
		LastCommit:        testNow.Add(-200 * 24 * time.Hour),
	}
	status := Classify(signals)
	assert.Equal(t, schema.StateBacklogged, status.State)
	assert.Equal(t, 0, status.Progress)
	assert.Equal(t, schema.PhaseGray, status.Legacy.Phase)
}

func TestClassifyActiveRepo(t *testing.T) {
	status := Classify(activeSignals())
	assert.Equal(t, schema.StateBuilding, status.State)
	assert.Equal(t, 50, status.Progress)
	assert.Equal(t, schema.PhaseOrange, status.Legacy.Phase)
}

func TestClassifyZeroCommitsEver(t *testing.T) {
	signals := &schema.RepoSignals{
		Now:              testNow,
		TotalCommits:     0,
		WorkingTreeClean: true, // cleanliness must not matter for a fresh init
	}
	status := Classify(signals)
	assert.Equal(t, schema.StateBacklogged, status.State)
	assert.Equal(t, 0, status.Progress)
}

func TestClassifyUnavailableSignals(t *testing.T) {
	signals := &schema.RepoSignals{Now: testNow, Unavailable: true, TotalCommits: 80}
	status := Classify(signals)
	assert.Equal(t, schema.StateBacklogged, status.State)
}

func TestClassifyUnmergedHotfixBranch(t *testing.T) {
	signals := activeSignals()
	signals.UnmergedWorkBranches = []string{"hotfix/login-crash"}
	status := Classify(signals)
	assert.Equal(t, schema.StateBlocked, status.State)
	assert.Equal(t, 40, status.Progress)
	assert.Equal(t, schema.PhaseRed, status.Legacy.Phase)
}

func TestClassifyUnmergedHotfixUsesPriorProgress(t *testing.T) {
	signals := activeSignals()
	signals.UnmergedWorkBranches = []string{"bugfix/flaky-test"}
	prior := schema.NewStatusWithProgress(schema.StateBuilding, 72)
	status := ClassifyWithPrior(signals, &prior)
	assert.Equal(t, schema.StateBlocked, status.State)
	assert.Equal(t, 72, status.Progress)
}

func TestClassifyFeatureBranchIsNotBlocking(t *testing.T) {
	signals := activeSignals()
	signals.UnmergedWorkBranches = []string{"feature/new-dashboard"}
	status := Classify(signals)
	assert.Equal(t, schema.StateBuilding, status.State)
}

func TestClassifyStagnantRepo(t *testing.T) {
	signals := activeSignals()
	signals.CommitsLast14Days = 0
	signals.CommitsLast30Days = 2
	signals.LastCommit = testNow.Add(-20 * 24 * time.Hour)
	status := Classify(signals)
	assert.Equal(t, schema.StateBlocked, status.State)
	assert.Equal(t, schema.PhaseRed, status.Legacy.Phase)
}

func TestClassifyMaintenanceModeRepo(t *testing.T) {
	signals := activeSignals()
	signals.WorkingTreeClean = true
	signals.RecentSubjects = []string{"docs: update readme", "chore(deps): bump deps", "refactor: tidy config"}
	signals.Tags = []schema.TagInfo{{Name: "v1.4.0", Created: testNow.Add(-30 * 24 * time.Hour)}}
	status := Classify(signals)
	assert.Equal(t, schema.StateBuilt, status.State)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, schema.PhaseGreen, status.Legacy.Phase)
}

func TestClassifyMaintenanceNeedsRecentTag(t *testing.T) {
	signals := activeSignals()
	signals.WorkingTreeClean = true
	signals.RecentSubjects = []string{"docs: update readme", "chore: cleanup", "docs: typo"}
	signals.Tags = []schema.TagInfo{{Name: "v0.1.0", Created: testNow.Add(-365 * 24 * time.Hour)}}
	status := Classify(signals)
	// Falls through to the active branch instead
	assert.Equal(t, schema.StateBuilding, status.State)
}

func TestClassifyOptimisticFallback(t *testing.T) {
	signals := activeSignals()
	signals.CommitsLast14Days = 0 // not recent enough for building
	signals.CommitsLast30Days = 6 // but not stagnant either
	status := Classify(signals)
	assert.Equal(t, schema.StateBuilt, status.State)
	assert.Equal(t, 100, status.Progress)
}

func TestClassifyIsDeterministic(t *testing.T) {
	signals := activeSignals()
	first := Classify(signals)
	for range 10 {
		assert.Equal(t, first, Classify(signals))
	}
}

func TestIsMaintenanceOnly(t *testing.T) {
	assert.False(t, isMaintenanceOnly(nil))
	assert.True(t, isMaintenanceOnly([]string{"docs: x"}))
	assert.True(t, isMaintenanceOnly([]string{"chore(ci): x", "refactor: y", "docs: z", "feat: ignored beyond sample"}))
	assert.False(t, isMaintenanceOnly([]string{"feat: shiny", "docs: x"}))
}
