// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Evotrack MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Evotrack Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_evolution_report ---
	s.AddTool(mcp.NewTool("get_evolution_report",
		mcp.WithDescription("Summarize how a subject evolved across the snapshots in a timeline bundle."),
		mcp.WithString("bundle_path", mcp.Description("Path to the timeline bundle directory (defaults to the configured bundle).")),
		mcp.WithString("from", mcp.Description("Window start, absolute ISO8601 or 'N [units] ago'.")),
		mcp.WithString("to", mcp.Description("Window end, absolute ISO8601 or 'N [units] ago'.")),
	), h.handleGetEvolutionReport)

	// --- 2. Tool: get_transformations ---
	s.AddTool(mcp.NewTool("get_transformations",
		mcp.WithDescription("Detect multi-snapshot transformation patterns (surgical, cosmetic, fitness, aging) in a timeline bundle."),
		mcp.WithString("bundle_path", mcp.Description("Path to the timeline bundle directory.")),
	), h.handleGetTransformations)

	// --- 3. Tool: get_score_trends ---
	s.AddTool(mcp.NewTool("get_score_trends",
		mcp.WithDescription("Analyze the score history of a bundle: trend direction, regression, anomalies and projections."),
		mcp.WithString("bundle_path", mcp.Description("Path to the timeline bundle directory.")),
		mcp.WithNumber("window", mcp.Description("Moving-average window for the companion analysis. Defaults to 3.")),
	), h.handleGetScoreTrends)

	// --- 4. Tool: get_score_milestones ---
	s.AddTool(mcp.NewTool("get_score_milestones",
		mcp.WithDescription("List notable points in a bundle score history: peaks, significant improvements, consistency streaks."),
		mcp.WithString("bundle_path", mcp.Description("Path to the timeline bundle directory.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of milestones returned.")),
	), h.handleGetScoreMilestones)

	// --- 5. Tool: compare_score_periods ---
	s.AddTool(mcp.NewTool("compare_score_periods",
		mcp.WithDescription("Compare average scores across two date ranges of a bundle score history."),
		mcp.WithString("a_start", mcp.Description("Start of period A."), mcp.Required()),
		mcp.WithString("a_end", mcp.Description("End of period A."), mcp.Required()),
		mcp.WithString("b_start", mcp.Description("Start of period B."), mcp.Required()),
		mcp.WithString("b_end", mcp.Description("End of period B."), mcp.Required()),
		mcp.WithString("bundle_path", mcp.Description("Path to the timeline bundle directory.")),
	), h.handleCompareScorePeriods)

	return s
}

// StartMCPServer starts the Evotrack MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
