package outwriter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []schema.AnalysisRunRecord {
	endTime := time.Date(2024, 7, 1, 12, 0, 1, 0, time.UTC)
	durationMs := int32(850)
	configParams := `{"bundle_path":"/tmp/subject"}`
	return []schema.AnalysisRunRecord{
		{
			AnalysisID:    2,
			Kind:          "report",
			StartTime:     time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
			EndTime:       &endTime,
			RunDurationMs: &durationMs,
			TotalEntities: 5,
			ConfigParams:  &configParams,
		},
		{
			AnalysisID:    1,
			Kind:          "composite",
			StartTime:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			TotalEntities: 0,
		},
	}
}

func TestWriteCSVResultsForRuns(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForRuns(w, sampleRuns())
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "run_duration_ms")
	assert.Contains(t, lines[1], "report")
	assert.Contains(t, lines[1], "850")
	assert.Contains(t, lines[1], "bundle_path")
	// The unfinished run leaves end_time and duration empty
	assert.Contains(t, lines[2], "composite")
	assert.Contains(t, lines[2], ",,")
}

func TestWriteRunTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 140, AnalysisBackend: schema.SQLiteBackend}

	var buf bytes.Buffer
	err := writeRunTable(sampleRuns(), cfg, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "report")
	assert.Contains(t, out, "850")
	assert.Contains(t, out, "running") // unfinished run
	assert.Contains(t, out, "Showing 2 analysis runs")
	assert.Contains(t, out, "Analysis backend: sqlite")
}

func TestWriteRunResultsDispatch(t *testing.T) {
	for _, output := range []schema.OutputMode{schema.JSONOut, schema.CSVOut, schema.TextOut} {
		tmpFile := t.TempDir() + "/runs.out"
		cfg := &contract.Config{
			Precision:  2,
			Output:     output,
			OutputFile: tmpFile,
			Width:      120,
		}
		err := WriteRunResults(sampleRuns(), cfg, time.Millisecond)
		require.NoError(t, err)
	}
}
