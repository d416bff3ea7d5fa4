package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       schema.JSONOut,
		OutputFile:   filepath.Join(t.TempDir(), "out.json"),
		Precision:    2,
		Workers:      2,
		CacheBackend: schema.NoneBackend,
	}
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecuteAggregate(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "demo.pow3r.status.json",
		`{"projectName": "demo", "nodes": [{"id": "api", "name": "API", "status": "green"}], "edges": []}`)

	cfg := execConfig(t)
	cfg.InputDirs = []string{dir}
	require.NoError(t, ExecuteAggregate(context.Background(), cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var graph schema.AggregateGraph
	require.NoError(t, json.Unmarshal(content, &graph))
	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, schema.StateBuilt, graph.Nodes[0].Status.State)
	assert.Equal(t, 1, graph.Stats.DocumentsProcessed)
}

func TestExecuteAggregateCountsLoadSkips(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "good.pow3r.status.json",
		`{"projectName": "good", "nodes": [{"id": "a", "name": "A", "status": "orange"}], "edges": []}`)
	writeFixture(t, dir, "bad.pow3r.status.json", `{not json`)

	cfg := execConfig(t)
	cfg.InputDirs = []string{dir}
	require.NoError(t, ExecuteAggregate(context.Background(), cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var graph schema.AggregateGraph
	require.NoError(t, json.Unmarshal(content, &graph))
	assert.Equal(t, 1, graph.Stats.DocumentsProcessed)
	assert.Equal(t, 1, graph.Stats.DocumentsSkipped)
	require.NotEmpty(t, graph.Stats.Skips)
	assert.Equal(t, schema.SkipMalformedDocument, graph.Stats.Skips[0].Kind)
}

func TestExecuteAggregateNoInput(t *testing.T) {
	cfg := execConfig(t)
	assert.Error(t, ExecuteAggregate(context.Background(), cfg))

	cfg.InputDirs = []string{t.TempDir()}
	assert.Error(t, ExecuteAggregate(context.Background(), cfg))
}

func TestExecuteConvert(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir, "legacy.pow3r.status.json",
		`{"projectName": "legacy", "nodes": [{"id": "a", "name": "A", "status": {"phase": "red", "completeness": 0.4}}], "edges": []}`)

	cfg := execConfig(t)
	cfg.InputDirs = []string{input}
	cfg.OutputFile = filepath.Join(dir, "canonical.json")
	require.NoError(t, ExecuteConvert(context.Background(), cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var doc schema.StatusDocument
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Equal(t, schema.SchemaV3, doc.SchemaVersion)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, schema.StateBroken, doc.Nodes[0].Status.State)
	assert.Equal(t, 40, doc.Nodes[0].Status.Progress)
}

func TestExecuteConvertMissingInput(t *testing.T) {
	cfg := execConfig(t)
	assert.Error(t, ExecuteConvert(context.Background(), cfg))

	cfg.InputDirs = []string{filepath.Join(t.TempDir(), "nope.pow3r.status.json")}
	assert.Error(t, ExecuteConvert(context.Background(), cfg))
}

func TestDocumentPath(t *testing.T) {
	doc := &schema.StatusDocument{ProjectName: "demo"}
	result := schema.ScanResult{RepoPath: "/repos/demo", Document: doc}

	cfg := &contract.Config{}
	assert.Equal(t, filepath.Join("/repos/demo", "demo.pow3r.status.json"), documentPath(cfg, result))

	cfg.OutputDir = "/tmp/out"
	assert.Equal(t, filepath.Join("/tmp/out", "demo.pow3r.status.json"), documentPath(cfg, result))
}

func TestRecordScanHistory(t *testing.T) {
	store := contract.NewMemoryHistoryStore()
	mgr := &contract.MockCacheManager{HistoryStore: store}

	doc := &schema.StatusDocument{
		ProjectName: "demo",
		GraphID:     "abc123",
		Status:      schema.NewStatusWithProgress(schema.StateBuilding, 50),
		Nodes:       []schema.Node{{ID: "a"}},
		LastScan:    time.Now().UTC(),
	}
	results := []schema.ScanResult{
		{RepoPath: "/repos/demo", Document: doc, Duration: 80 * time.Millisecond},
		{RepoPath: "/repos/broken", Err: assert.AnError},
	}

	recordScanHistory(mgr, results)

	records, err := store.ListScans(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/repos/demo", records[0].RepoPath)
	assert.Equal(t, schema.StateBuilding, records[0].State)
	assert.Equal(t, int64(80), records[0].DurationMs)
}
