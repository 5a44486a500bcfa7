package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/evotrack/internal/contract"
	"github.com/huangsam/evotrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChanges() []schema.DetectedChange {
	return []schema.DetectedChange{
		{
			Type:         schema.PhysicalAppearanceChange,
			Description:  "weight changed by 8.5%",
			Confidence:   0.85,
			Significance: 0.8,
			Evidence:     []string{"weight: 70 -> 64"},
			Tags:         []schema.EvidenceTag{schema.TagWeight},
		},
		{
			Type:         schema.LifestyleChange,
			Description:  "new activity signals",
			Confidence:   0.6,
			Significance: 0.4,
		},
	}
}

func TestWriteJSONResultsForChanges(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForChanges(&buf, sampleChanges())
	require.NoError(t, err)

	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "Exceptional", result[0]["label"]) // significance 0.8
	assert.Equal(t, "physical_appearance", result[0]["type"])
	assert.Equal(t, "Moderate", result[1]["label"]) // significance 0.4
}

func TestWriteCSVResultsForChanges(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForChanges(w, sampleChanges(), fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "significance")
	assert.Contains(t, lines[0], "tags")
	assert.Contains(t, lines[1], "weight: 70 -> 64")
	assert.Contains(t, lines[1], "weight")
	assert.Contains(t, lines[2], "lifestyle")
}

func TestWriteChangeTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 140, CacheBackend: schema.SQLiteBackend}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeChangeTable(sampleChanges(), cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "weight changed by 8.5%")
	// Only the 0.8 significance change crosses the threshold
	assert.Contains(t, out, "Showing 2 detected changes (1 significant)")
}

func sampleTransformations() []schema.DetectedTransformation {
	return []schema.DetectedTransformation{
		{
			Type:            schema.FitnessTransformation,
			Description:     "gradual fitness arc across 3 snapshots",
			Confidence:      0.75,
			StartTime:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndTime:         time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
			Evidence:        []string{"weight trending down", "muscle definition up"},
			StartSnapshotID: "2024-01-01T00_00_00.000Z",
			EndSnapshotID:   "2024-04-10T00_00_00.000Z",
		},
	}
}

func TestWriteJSONResultsForTransformations(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForTransformations(&buf, sampleTransformations())
	require.NoError(t, err)

	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "fitness", result[0]["type"])
	assert.Equal(t, "High", result[0]["label"]) // confidence 0.75
	assert.Equal(t, "2024-01-01T00_00_00.000Z", result[0]["start_snapshot_id"])
}

func TestWriteCSVResultsForTransformations(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForTransformations(w, sampleTransformations(), fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "start_snapshot_id")
	assert.Contains(t, lines[1], "fitness")
	assert.Contains(t, lines[1], "weight trending down|muscle definition up")
	assert.Contains(t, lines[1], "0.75")
}

func TestWriteTransformationTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 160, CacheBackend: schema.SQLiteBackend}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeTransformationTable(sampleTransformations(), cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-04-10")
	assert.Contains(t, out, "100") // span days
	assert.Contains(t, out, "Showing 1 detected transformations")
}

func TestWriteChangeResultsDispatch(t *testing.T) {
	tests := []struct {
		name   string
		output schema.OutputMode
	}{
		{name: "json output", output: schema.JSONOut},
		{name: "csv output", output: schema.CSVOut},
		{name: "table output", output: schema.TextOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := t.TempDir() + "/changes.out"
			cfg := &contract.Config{
				Precision:  2,
				Output:     tt.output,
				OutputFile: tmpFile,
				Width:      120,
			}
			err := WriteChangeResults(sampleChanges(), cfg, time.Millisecond)
			require.NoError(t, err)

			err = WriteTransformationResults(sampleTransformations(), cfg, time.Millisecond)
			require.NoError(t, err)
		})
	}
}
