package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CountCommits implements the GitClient interface.
func (c *LocalGitClient) CountCommits(ctx context.Context, repoPath string, since time.Time) (int, error) {
	args := []string{"rev-list", "--count", "HEAD"}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format(DateTimeFormat))
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		// A repository with zero commits has no HEAD to resolve
		if strings.Contains(err.Error(), "unknown revision") || strings.Contains(err.Error(), "ambiguous argument") {
			return 0, nil
		}
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(out)))
}

// GetLastCommitTime implements the GitClient interface.
func (c *LocalGitClient) GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error) {
	out, err := c.Run(ctx, repoPath, "log", "-n", "1", "--pretty=format:%ad", "--date=iso-strict")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(string(out)))
}

// GetRecentSubjects implements the GitClient interface.
func (c *LocalGitClient) GetRecentSubjects(ctx context.Context, repoPath string, limit int) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "log", fmt.Sprintf("-n%d", limit), "--pretty=format:%s")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// GetActivityLog implements the GitClient interface.
func (c *LocalGitClient) GetActivityLog(ctx context.Context, repoPath string, since time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--name-only",
		"--pretty=format:--%H|%an|%ad",
		"--date=iso-strict",
	}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format(DateTimeFormat))
	}
	return c.Run(ctx, repoPath, args...)
}

// ListUnmergedBranches implements the GitClient interface.
func (c *LocalGitClient) ListUnmergedBranches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "branch", "--no-merged", "HEAD", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// IsWorkingTreeClean implements the GitClient interface.
func (c *LocalGitClient) IsWorkingTreeClean(ctx context.Context, repoPath string) (bool, error) {
	out, err := c.Run(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(out))) == 0, nil
}

// ListTags implements the GitClient interface.
func (c *LocalGitClient) ListTags(ctx context.Context, repoPath string) ([]schema.TagInfo, error) {
	out, err := c.Run(ctx, repoPath,
		"tag", "--sort=-creatordate",
		"--format=%(refname:short)|%(creatordate:iso-strict)")
	if err != nil {
		return nil, err
	}
	var tags []schema.TagInfo
	for _, line := range splitNonEmptyLines(out) {
		parts := strings.SplitN(line, "|", 2)
		tag := schema.TagInfo{Name: parts[0]}
		if len(parts) == 2 {
			if created, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1])); err == nil {
				tag.Created = created
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// splitNonEmptyLines splits command output into trimmed, non-empty lines.
func splitNonEmptyLines(out []byte) []string {
	var lines []string
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
