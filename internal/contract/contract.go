// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// GitClient defines the necessary operations for collecting repository
// signals. This allows the scan logic to be tested without needing a real
// git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// --- Commit Activity ---

	// CountCommits returns the number of commits on HEAD since the given
	// time. A zero time counts the entire history.
	CountCommits(ctx context.Context, repoPath string, since time.Time) (int, error)

	// GetLastCommitTime returns the author time of the most recent commit.
	GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error)

	// GetRecentSubjects returns up to limit commit subjects, newest first.
	GetRecentSubjects(ctx context.Context, repoPath string, limit int) ([]string, error)

	// GetActivityLog returns the raw commit log output needed for per-path
	// activity aggregation since the given time.
	GetActivityLog(ctx context.Context, repoPath string, since time.Time) ([]byte, error)

	// --- Branches / Tree / Tags ---

	// ListUnmergedBranches returns branches not merged into HEAD.
	ListUnmergedBranches(ctx context.Context, repoPath string) ([]string, error)

	// IsWorkingTreeClean reports whether the working tree has no pending changes.
	IsWorkingTreeClean(ctx context.Context, repoPath string) (bool, error)

	// ListTags returns all tags with their creation times, newest first.
	ListTags(ctx context.Context, repoPath string) ([]schema.TagInfo, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetScanStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording scan runs.
type HistoryStore interface {
	// RecordScan stores one completed repository scan.
	RecordScan(record schema.ScanRecord) (int64, error)

	// ListScans returns the most recent scan records, newest first.
	ListScans(limit int) ([]schema.ScanRecord, error)

	// Clear removes all scan records.
	Clear() error

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
