package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       output,
		OutputFile:   filepath.Join(t.TempDir(), "out.txt"),
		Precision:    2,
		Workers:      2,
		CacheBackend: schema.NoneBackend,
	}
}

func sampleScanResults() []schema.ScanResult {
	doc := &schema.StatusDocument{
		GraphID:       "abc123",
		ProjectName:   "demo",
		SchemaVersion: schema.SchemaV3,
		Status:        schema.NewStatus(schema.StateBuilding),
		Nodes:         []schema.Node{{ID: "node-1", Status: schema.NewStatus(schema.StateBuilding)}},
		Edges:         []schema.Edge{},
	}
	return []schema.ScanResult{
		{RepoPath: "/repos/demo", Document: doc, Duration: 100 * time.Millisecond},
		{RepoPath: "/repos/broken", Err: assert.AnError, Duration: 5 * time.Millisecond},
	}
}

func sampleGraph() *schema.AggregateGraph {
	return &schema.AggregateGraph{
		Timestamp: time.Now(),
		Nodes: []schema.Node{
			{
				ID:          "src1:node-1",
				Type:        "service.api",
				Status:      schema.NewStatus(schema.StateBuilt),
				Analytics:   schema.Analytics{Connectivity: 2, CentralityScore: 0.5},
				Metadata:    schema.Metadata{Title: "API Layer", Authors: []string{"alice"}},
				Reliability: &schema.Reliability{Score: 0.42},
			},
		},
		Stats: schema.SummaryStats{
			TotalNodes:         1,
			DocumentsProcessed: 1,
			StateCounts:        map[schema.NodeState]int{schema.StateBuilt: 1},
			AvgProgress:        100,
		},
	}
}

func TestWriteScanResultsTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	require.NoError(t, WriteScanResults(sampleScanResults(), cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "/repos/demo")
	assert.Contains(t, out, "building")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "Scanned 2 repositories (1 failed)")
}

func TestWriteScanResultsJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, WriteScanResults(sampleScanResults(), cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "/repos/demo", decoded[0]["repoPath"])
	assert.NotEmpty(t, decoded[1]["error"])
	assert.Nil(t, decoded[1]["document"])
}

func TestWriteScanResultsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	require.NoError(t, WriteScanResults(sampleScanResults(), cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3) // header + 2 rows
	assert.True(t, strings.HasPrefix(lines[0], "repository,state,progress"))
	assert.Contains(t, lines[1], "building")
}

func TestWriteAggregateGraphTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	graph := sampleGraph()
	graph.Stats.Skips = []schema.SkipRecord{{Kind: schema.SkipDanglingEdge, Source: "x", Detail: "edge endpoint not found: ghost"}}

	require.NoError(t, WriteAggregateGraph(graph, cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "src1:node-1")
	assert.Contains(t, out, "Graph: 1 nodes, 0 edges")
	assert.Contains(t, out, "skipped edge")
}

func TestWriteAggregateGraphJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, WriteAggregateGraph(sampleGraph(), cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded schema.AggregateGraph
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded.Nodes, 1)
	assert.Equal(t, "src1:node-1", decoded.Nodes[0].ID)
	require.NotNil(t, decoded.Nodes[0].Reliability)
	assert.Equal(t, 0.42, decoded.Nodes[0].Reliability.Score)
}

func TestWriteHistoryRecordsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	records := []schema.ScanRecord{
		{ScanID: 2, RepoPath: "/repos/demo", State: schema.StateBuilt, Progress: 100,
			NodeCount: 3, EdgeCount: 2, GraphID: "abc", ScanTime: time.Now(), DurationMs: 150},
	}
	require.NoError(t, WriteHistoryRecords(records, cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "built")
	assert.Contains(t, lines[1], "abc")
}

func TestGetMaxTablePathWidthBounds(t *testing.T) {
	width := getMaxTablePathWidth()
	assert.GreaterOrEqual(t, width, 15)
	assert.LessOrEqual(t, width, 70)
}
