package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
)

// DiscoverRepos walks the scan root looking for Git repositories, bounded
// by the global walk depth. A root that is itself a repository yields a
// single entry. Results are sorted absolute paths.
func DiscoverRepos(root string, excludes []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if isGitRepo(absRoot) {
		return []string{absRoot}, nil
	}

	var repos []string
	findRepos(absRoot, 1, excludes, &repos)
	sort.Strings(repos)
	if len(repos) == 0 {
		return nil, fmt.Errorf("no git repositories found under %s", absRoot)
	}
	return repos, nil
}

// findRepos recursively scans for .git directories. A found repository is
// not descended into further.
func findRepos(dir string, depth int, excludes []string, repos *[]string) {
	if depth > contract.MaxWalkDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || contract.ShouldIgnore(entry.Name(), excludes) {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		if isGitRepo(child) {
			*repos = append(*repos, child)
			continue
		}
		findRepos(child, depth+1, excludes, repos)
	}
}

func isGitRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// CollectSignals gathers the full signal bundle for one repository. Any
// collection failure degrades to an unavailable bundle instead of an error
// so that one broken repository never aborts a whole scan.
func CollectSignals(ctx context.Context, client contract.GitClient, repoPath string, now time.Time) *schema.RepoSignals {
	signals := &schema.RepoSignals{
		RepoPath: repoPath,
		Name:     filepath.Base(repoPath),
		Now:      now,
	}

	total, err := client.CountCommits(ctx, repoPath, time.Time{})
	if err != nil {
		signals.Unavailable = true
		return signals
	}
	signals.TotalCommits = total

	// Remaining signals are individually optional
	if n, err := client.CountCommits(ctx, repoPath, now.AddDate(0, 0, -14)); err == nil {
		signals.CommitsLast14Days = n
	}
	if n, err := client.CountCommits(ctx, repoPath, now.AddDate(0, 0, -30)); err == nil {
		signals.CommitsLast30Days = n
	}
	if n, err := client.CountCommits(ctx, repoPath, now.AddDate(0, 0, -180)); err == nil {
		signals.CommitsLast180Days = n
	}
	if t, err := client.GetLastCommitTime(ctx, repoPath); err == nil {
		signals.LastCommit = t
	}
	if subjects, err := client.GetRecentSubjects(ctx, repoPath, 10); err == nil {
		signals.RecentSubjects = subjects
	}
	if branches, err := client.ListUnmergedBranches(ctx, repoPath); err == nil {
		signals.UnmergedWorkBranches = branches
	}
	if clean, err := client.IsWorkingTreeClean(ctx, repoPath); err == nil {
		signals.WorkingTreeClean = clean
	}
	if tags, err := client.ListTags(ctx, repoPath); err == nil {
		signals.Tags = tags
	}

	return signals
}

// ScanRepo performs the full inference pipeline for one repository: signal
// collection, classification, graph synthesis and reliability annotation.
func ScanRepo(ctx context.Context, cfg *contract.Config, client contract.GitClient, repoPath string, now time.Time) (*schema.StatusDocument, error) {
	signals := CollectSignals(ctx, client, repoPath, now)
	status := Classify(signals)

	tree, err := CollectFileTree(repoPath, cfg.MaxDepth, cfg.Excludes)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", repoPath, err)
	}
	signals.PrimaryLanguage = DetectPrimaryLanguage(tree.Files)

	var activity schema.Activity
	if !signals.Unavailable {
		if out, err := client.GetActivityLog(ctx, repoPath, now.AddDate(0, 0, -30)); err == nil {
			activity = ParseActivityLog(out)
		}
	}

	nodes, edges := Synthesize(signals.Name, tree, status, activity)
	for i := range nodes {
		nodes[i].Metadata.Language = signals.PrimaryLanguage
	}
	AnnotateAll(nodes)

	doc := &schema.StatusDocument{
		ProjectName:   signals.Name,
		Source:        repoPath,
		LastScan:      now,
		SchemaVersion: schema.SchemaV3,
		Status:        status,
		Nodes:         nodes,
		Edges:         edges,
	}
	doc.GraphID = ComputeGraphID(doc)
	return doc, nil
}

// ComputeGraphID derives a stable content hash over the document's graph,
// excluding timestamps so that unchanged repositories keep their id.
func ComputeGraphID(doc *schema.StatusDocument) string {
	var b strings.Builder
	b.WriteString(doc.ProjectName)
	b.WriteByte('\n')
	for _, n := range doc.Nodes {
		payload, _ := json.Marshal(n)
		b.Write(payload)
		b.WriteByte('\n')
	}
	for _, e := range doc.Edges {
		payload, _ := json.Marshal(e)
		b.Write(payload)
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:8])
}

// ScanAll processes the discovered repositories in parallel using a worker
// pool of cfg.Workers goroutines. Each repository scan is bounded by
// cfg.RepoTimeout; a timed-out or failed scan yields a result carrying the
// error instead of failing the run. Results come back sorted by path.
func ScanAll(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repos []string, now time.Time) []schema.ScanResult {
	repoCh := make(chan string, len(repos))
	resultCh := make(chan schema.ScanResult, len(repos))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for repo := range repoCh {
				resultCh <- scanOne(ctx, cfg, client, mgr, repo, now)
			}
		})
	}

	for _, repo := range repos {
		repoCh <- repo
	}
	close(repoCh)
	wg.Wait()
	close(resultCh)

	results := make([]schema.ScanResult, 0, len(repos))
	for result := range resultCh {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].RepoPath < results[j].RepoPath })
	return results
}

// scanOne runs a single repository scan under its own timeout, consulting
// the cache first.
func scanOne(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repoPath string, now time.Time) schema.ScanResult {
	start := time.Now()
	repoCtx, cancel := context.WithTimeout(ctx, cfg.RepoTimeout)
	defer cancel()

	doc, cached, err := cachedScanRepo(repoCtx, cfg, client, mgr, repoPath, now)
	return schema.ScanResult{
		RepoPath: repoPath,
		Document: doc,
		Cached:   cached,
		Err:      err,
		Duration: time.Since(start),
	}
}
