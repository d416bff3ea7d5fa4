package core

import (
	"testing"

	"github.com/memorymusicllc/pow3r/schema"
	"github.com/stretchr/testify/assert"
)

func builtStatus() schema.StatusValue {
	return schema.NewStatus(schema.StateBuilt)
}

func TestSynthesizePatternTable(t *testing.T) {
	tree := &FileTree{Dirs: []string{"api", "frontend", "database", "docs"}}
	nodes, edges := Synthesize("demo", tree, builtStatus(), nil)

	assert.Len(t, nodes, 4)
	titles := make([]string, 0, len(nodes))
	for _, n := range nodes {
		titles = append(titles, n.Metadata.Title)
		assert.Equal(t, schema.StateBuilt, n.Status.State)
	}
	assert.Contains(t, titles, "API Layer")
	assert.Contains(t, titles, "Frontend Application")
	assert.Contains(t, titles, "Database Layer")

	// frontend uses api, api queries database
	relations := make(map[schema.EdgeType]bool)
	for _, e := range edges {
		relations[e.Type] = true
	}
	assert.True(t, relations[schema.EdgeUses])
	assert.True(t, relations[schema.EdgeQueries])
}

func TestSynthesizeFallbackNode(t *testing.T) {
	tree := &FileTree{Dirs: []string{"zzz-unmatched"}, Files: []string{"README.md"}}
	nodes, edges := Synthesize("lonely", tree, builtStatus(), nil)

	assert.Len(t, nodes, 1)
	assert.Equal(t, "Main Application", nodes[0].Metadata.Title)
	assert.Equal(t, ".", nodes[0].Metadata.Location)
	assert.Empty(t, edges)
}

func TestSynthesizeMonorepoExpansion(t *testing.T) {
	tree := &FileTree{Dirs: []string{
		"packages", "packages/ui", "packages/sdk",
		"apps", "apps/dashboard",
	}}
	nodes, _ := Synthesize("mono", tree, builtStatus(), nil)

	titles := make([]string, 0, len(nodes))
	for _, n := range nodes {
		titles = append(titles, n.Metadata.Title)
	}
	assert.Contains(t, titles, "Package: ui")
	assert.Contains(t, titles, "Package: sdk")
	assert.Contains(t, titles, "App: dashboard")
}

func TestSynthesizeEdgesSkipSelfReference(t *testing.T) {
	tree := &FileTree{Dirs: []string{"src"}}
	nodes, edges := Synthesize("solo", tree, builtStatus(), nil)
	assert.Len(t, nodes, 1)
	for _, e := range edges {
		assert.NotEqual(t, e.From, e.To)
	}
}

func TestSynthesizeAppliesActivity(t *testing.T) {
	tree := &FileTree{Dirs: []string{"api", "frontend"}}
	activity := schema.Activity{
		"api/server.go":  {Commits: 7, Authors: map[string]int{"alice": 5, "bob": 2}},
		"frontend/ui.ts": {Commits: 2, Authors: map[string]int{"alice": 2}},
	}
	nodes, _ := Synthesize("demo", tree, builtStatus(), activity)

	byLocation := make(map[string]schema.Node)
	for _, n := range nodes {
		byLocation[n.Metadata.Location] = n
	}
	assert.Equal(t, 7, byLocation["api"].Analytics.ActivityLast30Days)
	assert.Equal(t, []string{"alice", "bob"}, byLocation["api"].Metadata.Authors)
	assert.Equal(t, 2, byLocation["frontend"].Analytics.ActivityLast30Days)
	assert.Equal(t, []string{"alice"}, byLocation["frontend"].Metadata.Authors)
}

func TestSynthesizeConnectivityMatchesDegree(t *testing.T) {
	tree := &FileTree{Dirs: []string{"api", "database"}}
	nodes, edges := Synthesize("demo", tree, builtStatus(), nil)
	assert.NotEmpty(t, edges)

	degree := make(map[string]int)
	for _, e := range edges {
		degree[e.From]++
		degree[e.To]++
	}
	for _, n := range nodes {
		assert.Equal(t, degree[n.ID], n.Analytics.Connectivity)
		assert.LessOrEqual(t, n.Analytics.CentralityScore, 1.0)
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	tree := &FileTree{Dirs: []string{"api", "frontend", "database", "packages", "packages/ui"}}
	firstNodes, firstEdges := Synthesize("demo", tree, builtStatus(), nil)
	for range 5 {
		nodes, edges := Synthesize("demo", tree, builtStatus(), nil)
		assert.Equal(t, firstNodes, nodes)
		assert.Equal(t, firstEdges, edges)
	}
}

func TestDetectPrimaryLanguage(t *testing.T) {
	assert.Equal(t, "Go", DetectPrimaryLanguage([]string{"main.go", "util.go", "app.py"}))
	assert.Equal(t, "", DetectPrimaryLanguage([]string{"README.md", "LICENSE"}))
	// Tie resolves alphabetically
	assert.Equal(t, "Go", DetectPrimaryLanguage([]string{"main.go", "app.py"}))
}

func TestParseActivityLog(t *testing.T) {
	out := []byte("--abc123|alice|2025-05-01T10:00:00+00:00\napi/server.go\napi/router.go\n\n--def456|bob|2025-05-02T10:00:00+00:00\napi/server.go\n")
	activity := ParseActivityLog(out)

	assert.Equal(t, 2, activity["api/server.go"].Commits)
	assert.Equal(t, 1, activity["api/server.go"].Authors["alice"])
	assert.Equal(t, 1, activity["api/server.go"].Authors["bob"])
	assert.Equal(t, 1, activity["api/router.go"].Commits)
}
