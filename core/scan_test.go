package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRepo creates a fake repository layout under dir.
func makeRepo(t *testing.T, dir string, subdirs ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	for _, sub := range subdirs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	return dir
}

func activeMock() *contract.MockGitClient {
	return &contract.MockGitClient{
		RepoHash:     "abc123",
		CommitCounts: map[int]int{0: 120, 14: 3, 30: 8, 180: 40},
		LastCommit:   testNow.Add(-24 * time.Hour),
		Now:          testNow,
	}
}

func scanConfig(t *testing.T, scanPath string) *contract.Config {
	t.Helper()
	return &contract.Config{
		ScanPath:    scanPath,
		MaxDepth:    contract.DefaultMaxDepth,
		RepoTimeout: contract.DefaultRepoTimeout,
		Workers:     2,
		CacheTTL:    contract.DefaultCacheTTL,
	}
}

func TestDiscoverReposFindsNested(t *testing.T) {
	root := t.TempDir()
	makeRepo(t, filepath.Join(root, "alpha"))
	makeRepo(t, filepath.Join(root, "group", "beta"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-repo"), 0o755))

	repos, err := DiscoverRepos(root, nil)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, filepath.Join(root, "alpha"), repos[0])
	assert.Equal(t, filepath.Join(root, "group", "beta"), repos[1])
}

func TestDiscoverReposRootIsRepo(t *testing.T) {
	root := makeRepo(t, t.TempDir())
	repos, err := DiscoverRepos(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, repos)
}

func TestDiscoverReposNoneFound(t *testing.T) {
	_, err := DiscoverRepos(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestCollectSignalsActiveRepo(t *testing.T) {
	client := activeMock()
	client.Subjects = []string{"feat: add thing"}
	client.Tags = []schema.TagInfo{{Name: "v1.0.0", Created: testNow.AddDate(0, -1, 0)}}

	signals := CollectSignals(context.Background(), client, "/repos/demo", testNow)
	assert.False(t, signals.Unavailable)
	assert.Equal(t, "demo", signals.Name)
	assert.Equal(t, 120, signals.TotalCommits)
	assert.Equal(t, 3, signals.CommitsLast14Days)
	assert.Equal(t, 8, signals.CommitsLast30Days)
	assert.Equal(t, 40, signals.CommitsLast180Days)
	assert.Len(t, signals.Tags, 1)
}

func TestCollectSignalsUnavailable(t *testing.T) {
	client := &contract.MockGitClient{Err: assert.AnError}
	signals := CollectSignals(context.Background(), client, "/repos/demo", testNow)
	assert.True(t, signals.Unavailable)
	assert.Equal(t, schema.StateBacklogged, Classify(signals).State)
}

func TestScanRepoProducesDocument(t *testing.T) {
	repo := makeRepo(t, t.TempDir(), "api", "frontend")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api", "server.go"), []byte("package api\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api", "routes.go"), []byte("package api\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "frontend", "app.js"), []byte("export {}\n"), 0o644))
	client := activeMock()
	client.ActivityLog = []byte("--abc|alice|2025-05-20T10:00:00+00:00\napi/server.go\n")

	doc, err := ScanRepo(context.Background(), scanConfig(t, repo), client, repo, testNow)
	require.NoError(t, err)

	assert.Equal(t, schema.SchemaV3, doc.SchemaVersion)
	assert.Equal(t, schema.StateBuilding, doc.Status.State)
	assert.NotEmpty(t, doc.GraphID)
	assert.NotEmpty(t, doc.Nodes)
	for _, n := range doc.Nodes {
		assert.NotNil(t, n.Reliability)
		// The repository-wide primary language lands on every node
		assert.Equal(t, "Go", n.Metadata.Language)
	}
}

func TestComputeGraphIDStableAcrossTimestamps(t *testing.T) {
	repo := makeRepo(t, t.TempDir(), "api")
	client := activeMock()
	cfg := scanConfig(t, repo)

	first, err := ScanRepo(context.Background(), cfg, client, repo, testNow)
	require.NoError(t, err)
	second, err := ScanRepo(context.Background(), cfg, client, repo, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.GraphID, second.GraphID)
}

func TestScanAllCollectsResults(t *testing.T) {
	root := t.TempDir()
	makeRepo(t, filepath.Join(root, "alpha"), "src")
	makeRepo(t, filepath.Join(root, "beta"), "api")
	repos, err := DiscoverRepos(root, nil)
	require.NoError(t, err)

	mgr := &contract.MockCacheManager{}
	results := ScanAll(context.Background(), scanConfig(t, root), activeMock(), mgr, repos, testNow)

	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(root, "alpha"), results[0].RepoPath)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.NotNil(t, r.Document)
		assert.False(t, r.Cached)
	}
}

func TestCachedScanRepoHitAndMiss(t *testing.T) {
	repo := makeRepo(t, t.TempDir(), "src")
	client := activeMock()
	cfg := scanConfig(t, repo)
	mgr := &contract.MockCacheManager{ScanStore: contract.NewMemoryCacheStore()}

	now := time.Now()
	first, cached, err := cachedScanRepo(context.Background(), cfg, client, mgr, repo, now)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := cachedScanRepo(context.Background(), cfg, client, mgr, repo, now)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.GraphID, second.GraphID)

	// A new HEAD invalidates the entry
	client.RepoHash = "def456"
	_, cached, err = cachedScanRepo(context.Background(), cfg, client, mgr, repo, now)
	require.NoError(t, err)
	assert.False(t, cached)
}
