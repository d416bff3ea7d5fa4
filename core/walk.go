package core

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
)

// CollectFileTree walks a repository directory up to maxDepth levels and
// returns its relative directory and file paths, sorted for determinism.
// Excluded names (VCS internals, dependency dirs, build output) are pruned.
func CollectFileTree(repoPath string, maxDepth int, excludes []string) (*FileTree, error) {
	tree := &FileTree{}
	if err := walkLevel(repoPath, "", 1, maxDepth, excludes, tree); err != nil {
		return nil, err
	}
	sort.Strings(tree.Dirs)
	sort.Strings(tree.Files)
	return tree, nil
}

// walkLevel recursively reads one directory level, bounded by maxDepth.
func walkLevel(repoPath, rel string, depth, maxDepth int, excludes []string, tree *FileTree) error {
	entries, err := os.ReadDir(filepath.Join(repoPath, filepath.FromSlash(rel)))
	if err != nil {
		// The root must be readable; nested failures only prune a subtree
		if rel == "" {
			return err
		}
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}
		if contract.ShouldIgnore(relPath, excludes) {
			continue
		}
		if entry.IsDir() {
			tree.Dirs = append(tree.Dirs, relPath)
			if depth < maxDepth {
				if err := walkLevel(repoPath, relPath, depth+1, maxDepth, excludes, tree); err != nil {
					return err
				}
			}
		} else {
			tree.Files = append(tree.Files, relPath)
		}
	}
	return nil
}

// languageByExtension maps file extensions to a primary language name.
var languageByExtension = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".php":   "PHP",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cs":    "C#",
	".swift": "Swift",
}

// DetectPrimaryLanguage returns the most common source language across the
// tree's files, or empty when nothing recognizable is present. Ties resolve
// alphabetically to keep scans deterministic.
func DetectPrimaryLanguage(files []string) string {
	counts := make(map[string]int)
	for _, f := range files {
		if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(f))]; ok {
			counts[lang]++
		}
	}
	best := ""
	bestCount := 0
	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}

// ParseActivityLog converts the raw git log output (commit headers in the
// form --hash|author|date followed by touched file paths) into per-path
// activity counts.
func ParseActivityLog(out []byte) schema.Activity {
	activity := make(schema.Activity)
	var currentAuthor string

	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.Trim(line, " \t\r'")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "--") {
			// Commit header line: --hash|author|date
			parts := strings.SplitN(line[2:], "|", 3)
			if len(parts) == 3 {
				currentAuthor = parts[1]
			} else {
				currentAuthor = ""
			}
			continue
		}

		pa := activity[line]
		pa.Commits++
		if currentAuthor != "" {
			if pa.Authors == nil {
				pa.Authors = make(map[string]int)
			}
			pa.Authors[currentAuthor]++
		}
		activity[line] = pa
	}
	return activity
}
