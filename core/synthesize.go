package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/memorymusicllc/pow3r/schema"
)

// patternRule maps a directory-name fragment to a synthesized node.
// The table is ordered: for each directory the first matching rule wins.
type patternRule struct {
	match    string // substring matched against the lowercased directory name
	kind     string // canonical component kind used by the relation table
	nodeType string // rendering taxonomy type
	title    string
}

// nodePatterns is the ordered matcher table for architectural components.
// Matching is substring-based against lowercased top-level directory names.
func nodePatterns() []patternRule {
	return []patternRule{
		{"api", "api", "service.api", "API Layer"},
		{"backend", "backend", "service.backend", "Backend Service"},
		{"server", "backend", "service.backend", "Server"},
		{"frontend", "frontend", "component.ui", "Frontend Application"},
		{"web", "frontend", "component.ui", "Web Client"},
		{"src", "src", "component.source", "Source Code"},
		{"lib", "lib", "library.core", "Library"},
		{"core", "core", "component.core", "Core Module"},
		{"services", "services", "service.layer", "Services Layer"},
		{"models", "models", "data.models", "Data Models"},
		{"controllers", "controllers", "component.controllers", "Controllers"},
		{"views", "views", "component.views", "Views"},
		{"components", "components", "component.ui", "Components"},
		{"utils", "utils", "library.utils", "Utilities"},
		{"config", "config", "config.schema", "Configuration"},
		{"database", "database", "service.database", "Database Layer"},
		{"db", "database", "service.database", "Database"},
		{"middleware", "middleware", "component.middleware", "Middleware"},
		{"routes", "routes", "component.routes", "Routes"},
		{"handlers", "handlers", "component.handlers", "Handlers"},
		{"workers", "workers", "service.workers", "Background Workers"},
		{"cmd", "cmd", "component.cli", "Command Line"},
		{"test", "tests", "test.suite", "Test Suite"},
		{"doc", "docs", "doc.markdown", "Documentation"},
		{"script", "scripts", "workflow.scripts", "Scripts"},
	}
}

// edgeRule declares one architecturally common directed relation, applied
// whenever both endpoint kinds are present in the synthesized node set.
// This is best-effort heuristics, not dependency analysis.
type edgeRule struct {
	fromKind string
	toKind   string
	relation schema.EdgeType
	strength float64
}

// edgeRules is the ordered relation table for edge synthesis.
func edgeRules() []edgeRule {
	return []edgeRule{
		{"frontend", "api", schema.EdgeUses, 0.8},
		{"frontend", "backend", schema.EdgeUses, 0.7},
		{"components", "api", schema.EdgeUses, 0.6},
		{"api", "services", schema.EdgeDependsOn, 0.7},
		{"api", "database", schema.EdgeQueries, 0.9},
		{"backend", "database", schema.EdgeQueries, 0.9},
		{"services", "models", schema.EdgeUses, 0.8},
		{"services", "database", schema.EdgeQueries, 0.7},
		{"controllers", "services", schema.EdgeUses, 0.7},
		{"controllers", "models", schema.EdgeUses, 0.6},
		{"routes", "controllers", schema.EdgeReferences, 0.8},
		{"routes", "handlers", schema.EdgeReferences, 0.8},
		{"middleware", "routes", schema.EdgeReferences, 0.6},
		{"workers", "database", schema.EdgeQueries, 0.6},
		{"api", "core", schema.EdgeDependsOn, 0.7},
		{"backend", "core", schema.EdgeDependsOn, 0.7},
		{"cmd", "core", schema.EdgeDependsOn, 0.7},
		{"tests", "src", schema.EdgeReferences, 0.5},
		{"tests", "core", schema.EdgeReferences, 0.5},
		{"docs", "src", schema.EdgeReferences, 0.3},
	}
}

// FileTree is the depth-bounded directory listing of one repository, with
// entries sorted so synthesis stays deterministic across runs.
type FileTree struct {
	Dirs  []string // repository-relative directory paths
	Files []string // repository-relative file paths
}

// Synthesize walks the collected file tree and produces the node and edge
// lists for one repository. Every node carries the repository's classified
// status; per-node signals only feed analytics and later reliability
// annotation. For a non-empty repository the result is never empty: when no
// pattern matches, a single fallback application node is produced.
func Synthesize(projectName string, tree *FileTree, status schema.StatusValue, activity schema.Activity) ([]schema.Node, []schema.Edge) {
	var nodes []schema.Node
	kindOf := make(map[string]string) // node id -> canonical kind
	nodeID := 0
	nextID := func() string {
		nodeID++
		return fmt.Sprintf("node-%d", nodeID)
	}

	addNode := func(kind, nodeType, title, location string) {
		id := nextID()
		nodes = append(nodes, schema.Node{
			ID:     id,
			Type:   nodeType,
			Status: status,
			Metadata: schema.Metadata{
				Title:       title,
				Description: fmt.Sprintf("%s of %s", title, projectName),
				Tags:        []string{kind},
				Location:    location,
			},
		})
		kindOf[id] = kind
	}

	// Monorepo expansion: every child of packages/ and apps/ becomes a node.
	for _, dir := range childDirs(tree.Dirs, "packages") {
		addNode("package", "component.package", "Package: "+baseName(dir), dir)
	}
	for _, dir := range childDirs(tree.Dirs, "apps") {
		addNode("application", "component.application", "App: "+baseName(dir), dir)
	}

	// Top-level directories against the ordered pattern table.
	for _, dir := range topLevelDirs(tree.Dirs) {
		lower := strings.ToLower(dir)
		for _, rule := range nodePatterns() {
			if strings.Contains(lower, rule.match) {
				addNode(rule.kind, rule.nodeType, rule.title, dir)
				break
			}
		}
	}

	// Never zero nodes for a non-empty repository.
	if len(nodes) == 0 {
		addNode("application", "component.application", "Main Application", ".")
	}

	edges := synthesizeEdges(nodes, kindOf)
	applyActivity(nodes, edges, activity)
	return nodes, edges
}

// synthesizeEdges applies the relation table over the synthesized node set.
// When several nodes share a kind, the first synthesized one represents it.
func synthesizeEdges(nodes []schema.Node, kindOf map[string]string) []schema.Edge {
	firstByKind := make(map[string]string)
	for _, n := range nodes {
		kind := kindOf[n.ID]
		if _, ok := firstByKind[kind]; !ok {
			firstByKind[kind] = n.ID
		}
	}

	var edges []schema.Edge
	for _, rule := range edgeRules() {
		from, okFrom := firstByKind[rule.fromKind]
		to, okTo := firstByKind[rule.toKind]
		if okFrom && okTo && from != to {
			edges = append(edges, schema.Edge{
				From:     from,
				To:       to,
				Type:     rule.relation,
				Strength: rule.strength,
			})
		}
	}
	return edges
}

// applyActivity folds per-path Git activity onto the synthesized nodes and
// fills in degree-based analytics.
func applyActivity(nodes []schema.Node, edges []schema.Edge, activity schema.Activity) {
	degree := make(map[string]int)
	for _, e := range edges {
		degree[e.From]++
		degree[e.To]++
	}

	for i := range nodes {
		n := &nodes[i]
		commits, authors := activityUnder(activity, n.Metadata.Location)
		n.Analytics.ActivityLast30Days = commits
		n.Analytics.Connectivity = degree[n.ID]
		if len(nodes) > 1 {
			n.Analytics.CentralityScore = float64(degree[n.ID]) / float64(len(nodes)-1)
			if n.Analytics.CentralityScore > 1 {
				n.Analytics.CentralityScore = 1
			}
		}
		n.Metadata.Authors = authors
	}
}

// activityUnder sums recent commits and collects authors for all paths at or
// below the given repository-relative location.
func activityUnder(activity schema.Activity, location string) (int, []string) {
	if len(activity) == 0 {
		return 0, nil
	}
	prefix := location + "/"
	authorSet := make(map[string]struct{})
	commits := 0
	for path, pa := range activity {
		if location != "." && path != location && !strings.HasPrefix(path, prefix) {
			continue
		}
		commits += pa.Commits
		for author := range pa.Authors {
			authorSet[author] = struct{}{}
		}
	}
	if commits == 0 {
		return 0, nil
	}
	authors := make([]string, 0, len(authorSet))
	for author := range authorSet {
		authors = append(authors, author)
	}
	sort.Strings(authors)
	return commits, authors
}

// topLevelDirs returns the sorted depth-one directories of a tree.
func topLevelDirs(dirs []string) []string {
	var top []string
	for _, d := range dirs {
		if !strings.Contains(d, "/") {
			top = append(top, d)
		}
	}
	sort.Strings(top)
	return top
}

// childDirs returns the sorted direct children of the given top-level directory.
func childDirs(dirs []string, parent string) []string {
	prefix := parent + "/"
	var children []string
	for _, d := range dirs {
		if strings.HasPrefix(d, prefix) && !strings.Contains(d[len(prefix):], "/") {
			children = append(children, d)
		}
	}
	sort.Strings(children)
	return children
}

// baseName returns the last path segment.
func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
