package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/evotrack/core"
	"github.com/huangsam/evotrack/internal/bundle"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// openBundle resolves the bundle path from the request or the base config.
func (h *toolHandler) openBundle(request mcp.CallToolRequest) (contract.BundleStore, error) {
	path := request.GetString("bundle_path", "")
	if path == "" {
		path = h.baseCfg.BundlePath
	}
	if path == "" {
		return nil, fmt.Errorf("bundle_path is required when no bundle is configured")
	}
	return bundle.NewStore(path), nil
}

func (h *toolHandler) handleGetEvolutionReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.openBundle(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now()
	start := h.baseCfg.StartTime
	end := h.baseCfg.EndTime
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.Add(-contract.DefaultLookbackDays * 24 * time.Hour)
	}
	if raw := request.GetString("from", ""); raw != "" {
		t, err := contract.ParseFlexibleTime(raw, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid from value: %v", err)), nil
		}
		start = t
	}
	if raw := request.GetString("to", ""); raw != "" {
		t, err := contract.ParseFlexibleTime(raw, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid to value: %v", err)), nil
		}
		end = t
	}
	if start.After(end) {
		return mcp.NewToolResultError("from cannot be after to"), nil
	}

	timeline, err := store.LoadTimeline()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	windowed := schema.Timeline{
		Snapshots:    timeline.SnapshotsBetween(start, end),
		ChangeEvents: timeline.ChangeEventsBetween(start, end),
		CreatedAt:    timeline.CreatedAt,
		LastUpdated:  timeline.LastUpdated,
	}

	report := core.GenerateEvolutionReport(windowed, now)
	jsonData, _ := json.MarshalIndent(report, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTransformations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.openBundle(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeline, err := store.LoadTimeline()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	transformations := core.DetectTransformations(timeline)
	jsonData, _ := json.MarshalIndent(transformations, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetScoreTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.openBundle(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	window := request.GetInt("window", contract.DefaultWindow)
	if window < 1 {
		return mcp.NewToolResultError("window must be at least 1"), nil
	}

	history, err := store.LoadScoreHistory()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	result := struct {
		Trend    schema.ScoreTrendAnalysis  `json:"trend"`
		Analysis schema.TrendAnalysisResult `json:"analysis"`
	}{
		Trend:    core.AnalyzeScoreTrends(history),
		Analysis: core.AnalyzeScoreHistory(history, window),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetScoreMilestones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.openBundle(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	history, err := store.LoadScoreHistory()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	milestones := core.ScoreMilestones(history)
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(milestones) {
		milestones = milestones[:limit]
	}
	jsonData, _ := json.MarshalIndent(milestones, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareScorePeriods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.openBundle(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now()
	boundaries := [4]string{
		request.GetString("a_start", ""),
		request.GetString("a_end", ""),
		request.GetString("b_start", ""),
		request.GetString("b_end", ""),
	}
	var parsed [4]time.Time
	for i, raw := range boundaries {
		if raw == "" {
			return mcp.NewToolResultError("a_start, a_end, b_start and b_end are all required"), nil
		}
		t, err := contract.ParseFlexibleTime(raw, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid period boundary %q: %v", raw, err)), nil
		}
		parsed[i] = t
	}
	if parsed[0].After(parsed[1]) || parsed[2].After(parsed[3]) {
		return mcp.NewToolResultError("period start cannot be after its end"), nil
	}

	history, err := store.LoadScoreHistory()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	comparison := core.CompareScorePeriods(history, parsed[0], parsed[1], parsed[2], parsed[3])
	jsonData, _ := json.MarshalIndent(comparison, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}
