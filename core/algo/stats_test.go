package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.42, Clamp01(0.42))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestStdev(t *testing.T) {
	assert.Equal(t, 0.0, Stdev([]float64{5}))
	assert.Equal(t, 0.0, Stdev([]float64{3, 3, 3}))
	// Population stdev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	assert.InDelta(t, 2.0, Stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestLeastSquares(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		slope     float64
		intercept float64
	}{
		{"perfect line", []float64{1, 3, 5, 7}, 2, 1},
		{"constant series", []float64{0.5, 0.5, 0.5, 0.5}, 0, 0.5},
		{"single value", []float64{0.7}, 0, 0.7},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, intercept := LeastSquares(tt.values)
			assert.InDelta(t, tt.slope, slope, 1e-9)
			assert.InDelta(t, tt.intercept, intercept, 1e-9)
		})
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Nil(t, MovingAverage(values, 0))
	assert.Nil(t, MovingAverage(values, 6))

	assert.Equal(t, []float64{2, 3, 4}, MovingAverage(values, 3))
	assert.Equal(t, values, MovingAverage(values, 1))
	assert.Equal(t, []float64{3}, MovingAverage(values, 5))
}
