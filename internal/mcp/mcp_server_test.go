package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/evotrack/internal/bundle"
	"github.com/huangsam/evotrack/internal/contract"
	mcp_internal "github.com/huangsam/evotrack/internal/mcp"
	"github.com/huangsam/evotrack/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, baseCfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{}

	t.Run("missing bundle path", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_transformations", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "bundle_path is required")
	})

	t.Run("get_evolution_report invalid from", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_evolution_report", map[string]any{
			"bundle_path": t.TempDir(),
			"from":        "not_a_time",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid from value")
	})

	t.Run("get_score_trends invalid window", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_score_trends", map[string]any{
			"bundle_path": t.TempDir(),
			"window":      0.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "window must be at least 1")
	})

	t.Run("compare_score_periods missing boundary", func(t *testing.T) {
		res := callTool(t, baseCfg, "compare_score_periods", map[string]any{
			"bundle_path": t.TempDir(),
			"a_start":     "2024-01-01",
			"a_end":       "2024-02-01",
			"b_start":     "2024-03-01",
			// b_end missing
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "all required")
	})

	t.Run("compare_score_periods inverted period", func(t *testing.T) {
		res := callTool(t, baseCfg, "compare_score_periods", map[string]any{
			"bundle_path": t.TempDir(),
			"a_start":     "2024-02-01",
			"a_end":       "2024-01-01",
			"b_start":     "2024-03-01",
			"b_end":       "2024-04-01",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "period start cannot be after its end")
	})
}

func seedBundle(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	store := bundle.NewStore(dir)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		ts := base.AddDate(0, i, 0)
		_, err := store.AddSnapshot(schema.Snapshot{
			Timestamp: ts,
			State:     "observation",
			Claims: []schema.Claim{
				{Property: "weight", Value: "70"},
			},
		})
		require.NoError(t, err)
		require.NoError(t, store.AddScoreEntry(schema.ScoreEntry{
			Timestamp:  ts,
			Score:      0.5 + float64(i)*0.1,
			Confidence: 0.9,
			Source:     "composite",
		}))
	}
	return dir
}

func TestMCPServerHandlers_HappyPath(t *testing.T) {
	bundlePath := seedBundle(t)
	baseCfg := &contract.Config{}

	t.Run("get_evolution_report", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_evolution_report", map[string]any{
			"bundle_path": bundlePath,
			"from":        "2024-01-01",
			"to":          "2024-12-31",
		})
		require.False(t, res.IsError)

		var report schema.EvolutionReport
		err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &report)
		require.NoError(t, err)
		assert.Equal(t, 4, report.SnapshotCount)
	})

	t.Run("get_transformations", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_transformations", map[string]any{
			"bundle_path": bundlePath,
		})
		require.False(t, res.IsError)

		var transformations []schema.DetectedTransformation
		err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &transformations)
		require.NoError(t, err)
	})

	t.Run("get_score_trends", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_score_trends", map[string]any{
			"bundle_path": bundlePath,
		})
		require.False(t, res.IsError)

		var result struct {
			Trend    schema.ScoreTrendAnalysis  `json:"trend"`
			Analysis schema.TrendAnalysisResult `json:"analysis"`
		}
		err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &result)
		require.NoError(t, err)
		assert.Equal(t, schema.ImprovingTrend, result.Trend.Direction)
	})

	t.Run("get_score_milestones with limit", func(t *testing.T) {
		res := callTool(t, baseCfg, "get_score_milestones", map[string]any{
			"bundle_path": bundlePath,
			"limit":       1.0,
		})
		require.False(t, res.IsError)

		var milestones []schema.ScoreMilestone
		err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &milestones)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(milestones), 1)
	})

	t.Run("compare_score_periods", func(t *testing.T) {
		res := callTool(t, baseCfg, "compare_score_periods", map[string]any{
			"bundle_path": bundlePath,
			"a_start":     "2024-01-01",
			"a_end":       "2024-02-15",
			"b_start":     "2024-02-16",
			"b_end":       "2024-12-31",
		})
		require.False(t, res.IsError)

		var comparison schema.PeriodComparison
		err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &comparison)
		require.NoError(t, err)
		assert.Equal(t, 2, comparison.CountA)
		assert.Equal(t, 2, comparison.CountB)
		assert.Greater(t, comparison.AverageB, comparison.AverageA)
	})
}

func TestMCPServerFallsBackToConfiguredBundle(t *testing.T) {
	bundlePath := seedBundle(t)
	baseCfg := &contract.Config{BundlePath: bundlePath}

	res := callTool(t, baseCfg, "get_transformations", map[string]any{})
	require.False(t, res.IsError)
}
