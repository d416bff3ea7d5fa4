package contract

import (
	"context"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// MockGitClient is a configurable GitClient for tests. Each field holds the
// canned value returned by the corresponding method; Err short-circuits every
// call when set.
type MockGitClient struct {
	Err error

	RepoRoot         string
	RepoHash         string
	CommitCounts     map[int]int // lookback days -> count; 0 = all history
	LastCommit       time.Time
	Subjects         []string
	ActivityLog      []byte
	UnmergedBranches []string
	TreeClean        bool
	Tags             []schema.TagInfo

	// Now anchors relative lookback resolution for CountCommits.
	Now time.Time
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return nil, m.Err
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(_ context.Context, _ string) (string, error) {
	return m.RepoRoot, m.Err
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(_ context.Context, _ string) (string, error) {
	return m.RepoHash, m.Err
}

// CountCommits implements the GitClient interface.
func (m *MockGitClient) CountCommits(_ context.Context, _ string, since time.Time) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	days := 0
	if !since.IsZero() && !m.Now.IsZero() {
		days = int(m.Now.Sub(since).Hours() / 24)
	}
	return m.CommitCounts[days], nil
}

// GetLastCommitTime implements the GitClient interface.
func (m *MockGitClient) GetLastCommitTime(_ context.Context, _ string) (time.Time, error) {
	return m.LastCommit, m.Err
}

// GetRecentSubjects implements the GitClient interface.
func (m *MockGitClient) GetRecentSubjects(_ context.Context, _ string, limit int) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Subjects) > limit {
		return m.Subjects[:limit], nil
	}
	return m.Subjects, nil
}

// GetActivityLog implements the GitClient interface.
func (m *MockGitClient) GetActivityLog(_ context.Context, _ string, _ time.Time) ([]byte, error) {
	return m.ActivityLog, m.Err
}

// ListUnmergedBranches implements the GitClient interface.
func (m *MockGitClient) ListUnmergedBranches(_ context.Context, _ string) ([]string, error) {
	return m.UnmergedBranches, m.Err
}

// IsWorkingTreeClean implements the GitClient interface.
func (m *MockGitClient) IsWorkingTreeClean(_ context.Context, _ string) (bool, error) {
	return m.TreeClean, m.Err
}

// ListTags implements the GitClient interface.
func (m *MockGitClient) ListTags(_ context.Context, _ string) ([]schema.TagInfo, error) {
	return m.Tags, m.Err
}
