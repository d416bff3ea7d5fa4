package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/memorymusicllc/pow3r/core"
	"github.com/memorymusicllc/pow3r/core/agg"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/internal/docstore"
	"github.com/memorymusicllc/pow3r/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleClassifyRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.ScanPath = p
	}

	client := contract.NewLocalGitClient()
	repoPath, err := client.GetRepoRoot(ctx, cfg.ScanPath)
	if err != nil {
		repoPath = cfg.ScanPath
	}

	repoCtx, cancel := context.WithTimeout(ctx, cfg.RepoTimeout)
	defer cancel()

	signals := core.CollectSignals(repoCtx, client, repoPath, time.Now().UTC())
	if signals.Unavailable {
		return mcp.NewToolResultError(fmt.Sprintf("no Git signals available for %s", repoPath)), nil
	}
	status := core.Classify(signals)

	report := struct {
		RepoPath          string             `json:"repoPath"`
		Status            schema.StatusValue `json:"status"`
		TotalCommits      int                `json:"totalCommits"`
		CommitsLast30Days int                `json:"commitsLast30Days"`
		LastCommit        time.Time          `json:"lastCommit"`
		TagCount          int                `json:"tagCount"`
	}{
		RepoPath:          repoPath,
		Status:            status,
		TotalCommits:      signals.TotalCommits,
		CommitsLast30Days: signals.CommitsLast30Days,
		LastCommit:        signals.LastCommit,
		TagCount:          len(signals.Tags),
	}
	jsonData, _ := json.MarshalIndent(report, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleScanRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	repoPath := request.GetString("repo_path", "")
	if repoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}
	if d := request.GetInt("max_depth", 0); d > 0 {
		cfg.MaxDepth = d
	}

	client := contract.NewLocalGitClient()
	results := core.ScanAll(ctx, cfg, client, h.mgr, []string{repoPath}, time.Now().UTC())
	if len(results) == 0 {
		return mcp.NewToolResultError("scan produced no results"), nil
	}
	if results[0].Err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", results[0].Err)), nil
	}

	jsonData, _ := json.MarshalIndent(results[0].Document, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAggregateGraphs(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inputDir := request.GetString("input_dir", "")
	if inputDir == "" {
		return mcp.NewToolResultError("input_dir is required"), nil
	}

	loaded, err := docstore.LoadDir(inputDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading documents failed: %v", err)), nil
	}
	if len(loaded.Documents) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no status documents found under %s", inputDir)), nil
	}

	graph := agg.Aggregate(loaded.Documents, time.Now().UTC())
	graph.Stats.DocumentsSkipped += len(loaded.Skips)
	graph.Stats.Skips = append(loaded.Skips, graph.Stats.Skips...)

	if outputFile := request.GetString("output_file", ""); outputFile != "" {
		if err := docstore.WriteAggregate(graph, outputFile); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("writing aggregate graph failed: %v", err)), nil
		}
	}

	jsonData, _ := json.MarshalIndent(graph, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetScanHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil {
		return mcp.NewToolResultError("history store is not configured"), nil
	}
	store := h.mgr.GetHistoryStore()
	if store == nil {
		return mcp.NewToolResultError("history store is not configured"), nil
	}

	limit := request.GetInt("limit", contract.DefaultHistoryLim)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be at least 1"), nil
	}

	records, err := store.ListScans(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing history failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
