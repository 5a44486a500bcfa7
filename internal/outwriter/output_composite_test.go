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

func sampleCompositeScore() schema.CompositeScore {
	return schema.CompositeScore{
		OverallScore: 0.62,
		Components: map[schema.ComponentKey]schema.ComponentScore{
			schema.FacialBeautyComponent: {
				Key:        schema.FacialBeautyComponent,
				Score:      0.8,
				Confidence: 0.9,
				Weighted:   0.2,
			},
			schema.SymmetryComponent: {
				Key:        schema.SymmetryComponent,
				Score:      0.7,
				Confidence: 0.8,
				Weighted:   0.105,
			},
			schema.ConsistencyComponent: {
				Key:        schema.ConsistencyComponent,
				Score:      0.5,
				Confidence: 0.6,
				Weighted:   0.025,
			},
		},
		Confidence: 0.77,
		ComputedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSortedComponents(t *testing.T) {
	components := sortedComponents(sampleCompositeScore())
	require.Len(t, components, 3)

	// Ordered by weighted contribution, largest first
	assert.Equal(t, schema.FacialBeautyComponent, components[0].Key)
	assert.Equal(t, schema.SymmetryComponent, components[1].Key)
	assert.Equal(t, schema.ConsistencyComponent, components[2].Key)
}

func TestSortedComponentsTieBreaksOnKey(t *testing.T) {
	score := schema.CompositeScore{
		Components: map[schema.ComponentKey]schema.ComponentScore{
			schema.SymmetryComponent:    {Key: schema.SymmetryComponent, Weighted: 0.1},
			schema.SkinQualityComponent: {Key: schema.SkinQualityComponent, Weighted: 0.1},
		},
	}
	components := sortedComponents(score)
	require.Len(t, components, 2)
	assert.Equal(t, schema.SkinQualityComponent, components[0].Key)
	assert.Equal(t, schema.SymmetryComponent, components[1].Key)
}

func TestWriteCSVResultsForComposite(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForComposite(w, sampleCompositeScore(), fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + 3 components

	assert.Contains(t, lines[0], "overall_score")
	assert.Contains(t, lines[1], "facial_beauty")
	assert.Contains(t, lines[1], "Exceptional")
	assert.Contains(t, lines[2], "symmetry")
	assert.Contains(t, lines[3], "consistency")
	// Every row repeats the overall score
	for _, line := range lines[1:] {
		assert.Contains(t, line, "0.62")
	}
}

func TestWriteCompositeTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 140, CacheBackend: schema.SQLiteBackend}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeCompositeTable(sampleCompositeScore(), cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "facial_beauty")
	assert.Contains(t, out, "Overall score: 62.00/100 (High), confidence: 0.77")
	assert.Contains(t, out, "Computed at 2024-07-01T12:00:00Z from 3 components")
}

func TestWriteCompositeResultsDispatch(t *testing.T) {
	for _, output := range []schema.OutputMode{schema.JSONOut, schema.CSVOut, schema.TextOut} {
		tmpFile := t.TempDir() + "/composite.out"
		cfg := &contract.Config{
			Precision:  2,
			Output:     output,
			OutputFile: tmpFile,
			Width:      120,
		}
		err := WriteCompositeResults(sampleCompositeScore(), cfg, time.Millisecond)
		require.NoError(t, err)
	}
}
