package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/evotrack/internal/bundle"
	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
)

// openBundleStore returns the bundle store for the validated bundle path.
func openBundleStore() *bundle.Store {
	return bundle.NewStore(cfg.BundlePath)
}

// readJSONFile decodes a single JSON document from the given file. Unknown
// fields are rejected so typos in hand-written input surface immediately.
func readJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// readSnapshotFile loads and validates a snapshot input document.
func readSnapshotFile(path string) (schema.Snapshot, error) {
	var snap schema.Snapshot
	if err := readJSONFile(path, &snap); err != nil {
		return schema.Snapshot{}, err
	}
	if snap.Timestamp.IsZero() {
		return schema.Snapshot{}, fmt.Errorf("snapshot in %s has no timestamp", path)
	}
	return snap, nil
}

// readChangeEventFile loads and validates a change-event input document.
func readChangeEventFile(path string) (schema.ChangeEvent, error) {
	var ev schema.ChangeEvent
	if err := readJSONFile(path, &ev); err != nil {
		return schema.ChangeEvent{}, err
	}
	if ev.Timestamp.IsZero() {
		return schema.ChangeEvent{}, fmt.Errorf("change event in %s has no timestamp", path)
	}
	if ev.Type == "" {
		ev.Type = schema.OtherChange
	}
	if _, ok := schema.ValidChangeTypes[ev.Type]; !ok {
		return schema.ChangeEvent{}, fmt.Errorf("change event in %s has invalid type %q", path, ev.Type)
	}
	if ev.Confidence < 0 || ev.Confidence > 1 {
		return schema.ChangeEvent{}, fmt.Errorf("change event in %s has confidence %.2f outside [0,1]", path, ev.Confidence)
	}
	return ev, nil
}

// readScoreEntryFile loads and validates a score-entry input document.
// The configured --source is applied when the document carries none.
func readScoreEntryFile(path string) (schema.ScoreEntry, error) {
	var entry schema.ScoreEntry
	if err := readJSONFile(path, &entry); err != nil {
		return schema.ScoreEntry{}, err
	}
	if entry.Timestamp.IsZero() {
		return schema.ScoreEntry{}, fmt.Errorf("score entry in %s has no timestamp", path)
	}
	if entry.Score < 0 || entry.Score > 1 {
		return schema.ScoreEntry{}, fmt.Errorf("score entry in %s has score %.2f outside [0,1]", path, entry.Score)
	}
	if entry.Source == "" {
		entry.Source = cfg.ScoreSource
	}
	return entry, nil
}

// loadScoreHistory loads the bundle score history, narrowed to the
// configured --source when one is set.
func loadScoreHistory(store contract.BundleStore) (schema.ScoreHistory, error) {
	history, err := store.LoadScoreHistory()
	if err != nil {
		return schema.ScoreHistory{}, err
	}
	if cfg.ScoreSource == "" {
		return history, nil
	}

	var filtered []schema.ScoreEntry
	for _, e := range history.Entries {
		if e.Source == cfg.ScoreSource {
			filtered = append(filtered, e)
		}
	}
	return schema.ScoreHistory{Entries: filtered}, nil
}

// displayScores converts the stored [0,1] score history to the displayed
// 0-100 scale the scoring engine's consistency component expects.
func displayScores(history schema.ScoreHistory) []float64 {
	stored := history.Scores()
	scores := make([]float64, len(stored))
	for i, s := range stored {
		scores[i] = s * 100
	}
	return scores
}

// beginAnalysisRun records the start of an analysis run. It returns zero
// when tracking is disabled; tracking failures degrade to warnings.
func beginAnalysisRun(kind string, start time.Time) int64 {
	if cacheManager == nil {
		return 0
	}
	analysisStore := cacheManager.GetAnalysisStore()
	if analysisStore == nil {
		return 0
	}

	configParams := map[string]any{
		"bundle_path":  cfg.BundlePath,
		"from":         cfg.StartTime.Format(contract.DateTimeFormat),
		"to":           cfg.EndTime.Format(contract.DateTimeFormat),
		"result_limit": cfg.ResultLimit,
		"output":       string(cfg.Output),
	}
	analysisID, err := analysisStore.BeginAnalysis(kind, start, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return 0
	}
	return analysisID
}

// endAnalysisRun finalizes a run started with beginAnalysisRun.
func endAnalysisRun(analysisID int64, totalEntities int) {
	if analysisID <= 0 || cacheManager == nil {
		return
	}
	analysisStore := cacheManager.GetAnalysisStore()
	if analysisStore == nil {
		return
	}
	if err := analysisStore.EndAnalysis(analysisID, time.Now(), totalEntities); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// logAdded prints a confirmation for a successful bundle write.
func logAdded(what string) {
	if cfg.UseEmojis {
		fmt.Printf("✅ %s\n", what)
	} else {
		fmt.Println(what)
	}
}
