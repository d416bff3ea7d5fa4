package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/memorymusicllc/pow3r/internal/contract"
	mcp_internal "github.com/memorymusicllc/pow3r/internal/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers(t *testing.T) {
	baseCfg := &contract.Config{
		ScanPath:    ".",
		MaxDepth:    contract.DefaultMaxDepth,
		RepoTimeout: 5 * time.Second,
		Workers:     1,
	}

	mgr := &contract.MockCacheManager{HistoryStore: contract.NewMemoryHistoryStore()}
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("scan_repository missing repo_path", func(t *testing.T) {
		tool := s.GetTool("scan_repository")
		require.NotNil(t, tool, "Tool scan_repository should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "scan_repository",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repo_path is required")
	})

	t.Run("aggregate_graphs missing input_dir", func(t *testing.T) {
		tool := s.GetTool("aggregate_graphs")
		require.NotNil(t, tool, "Tool aggregate_graphs should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "aggregate_graphs",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "input_dir is required")
	})

	t.Run("aggregate_graphs missing directory", func(t *testing.T) {
		tool := s.GetTool("aggregate_graphs")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "aggregate_graphs",
				Arguments: map[string]any{
					"input_dir": "/definitely/not/a/dir",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "loading documents failed")
	})

	t.Run("aggregate_graphs writes output_file", func(t *testing.T) {
		tool := s.GetTool("aggregate_graphs")
		require.NotNil(t, tool)

		inputDir := t.TempDir()
		docJSON := `{"projectName": "demo", "nodes": [{"id": "api", "name": "API", "status": "green"}], "edges": []}`
		require.NoError(t, os.WriteFile(filepath.Join(inputDir, "demo.pow3r.status.json"), []byte(docJSON), 0o644))
		outputFile := filepath.Join(t.TempDir(), "combined.json")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "aggregate_graphs",
				Arguments: map[string]any{
					"input_dir":   inputDir,
					"output_file": outputFile,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		content, err := os.ReadFile(outputFile)
		require.NoError(t, err)
		var graph struct {
			Nodes []json.RawMessage `json:"nodes"`
			Stats struct {
				DocumentsProcessed int `json:"documentsProcessed"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(content, &graph))
		assert.Len(t, graph.Nodes, 1)
		assert.Equal(t, 1, graph.Stats.DocumentsProcessed)
	})

	t.Run("get_scan_history invalid limit", func(t *testing.T) {
		tool := s.GetTool("get_scan_history")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_scan_history",
				Arguments: map[string]any{
					"limit": -1.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "limit must be at least 1")
	})

	t.Run("get_scan_history empty store", func(t *testing.T) {
		tool := s.GetTool("get_scan_history")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_scan_history",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.False(t, res.IsError)
	})
}
