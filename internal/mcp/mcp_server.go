// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/memorymusicllc/pow3r/internal/contract"
)

// NewMCPServer initializes and configures the pow3r MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Pow3r Status Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: classify_repository ---
	s.AddTool(mcp.NewTool("classify_repository",
		mcp.WithDescription("Infer the development status of a single Git repository from its commit activity, branches and tags."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
	), h.handleClassifyRepository)

	// --- 2. Tool: scan_repository ---
	s.AddTool(mcp.NewTool("scan_repository",
		mcp.WithDescription("Run the full status pipeline on one repository: classification, graph synthesis and reliability annotation. Returns the status document."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository."), mcp.Required()),
		mcp.WithNumber("max_depth", mcp.Description("Maximum directory depth for file tree collection.")),
	), h.handleScanRepository)

	// --- 3. Tool: aggregate_graphs ---
	s.AddTool(mcp.NewTool("aggregate_graphs",
		mcp.WithDescription("Merge all status documents found under a directory into one namespaced graph."),
		mcp.WithString("input_dir", mcp.Description("Directory to search for status documents."), mcp.Required()),
		mcp.WithString("output_file", mcp.Description("Optional path to persist the merged graph as JSON.")),
	), h.handleAggregateGraphs)

	// --- 4. Tool: get_scan_history ---
	s.AddTool(mcp.NewTool("get_scan_history",
		mcp.WithDescription("List the most recent repository scans recorded in the history store."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of records to return.")),
	), h.handleGetScanHistory)

	return s
}

// StartMCPServer starts the pow3r MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
