package erle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-aec/internal/testutil"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		mic      []float64
		residual []float64
		want     float64
	}{
		{name: "both silent", mic: make([]float64, 64), residual: make([]float64, 64), want: 0},
		{name: "empty", mic: nil, residual: nil, want: 0},
		{name: "unchanged", mic: []float64{1, -1, 1}, residual: []float64{1, -1, 1}, want: 0},
		{name: "half amplitude", mic: []float64{1, 1, 1, 1}, residual: []float64{0.5, 0.5, 0.5, 0.5}, want: 10 * math.Log10(4)},
		{name: "amplified", mic: []float64{0.1}, residual: []float64{1}, want: 10 * math.Log10((0.01+DefaultFloor)/(1+DefaultFloor))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Calculate(tt.mic, tt.residual), 1e-6)
		})
	}
}

func TestCalculateSilentResidualIsFinite(t *testing.T) {
	mic := testutil.DeterministicSine(440, 16000, 0.5, 1600)
	got := Calculate(mic, make([]float64, len(mic)))

	assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "ERLE = %v, want finite", got)
	assert.GreaterOrEqual(t, got, 80.0, "expected a large floored value")
}

func TestAnalyzeEnergies(t *testing.T) {
	res := Analyze([]float64{3, 4}, []float64{1, 0, 9}, 0)

	assert.Equal(t, 2, res.Samples)
	assert.Equal(t, 25.0, res.MicEnergy)
	assert.Equal(t, 1.0, res.ResidualEnergy)
	assert.InDelta(t, 10*math.Log10(25), res.ERLE_dB, 1e-12)
}

func TestSegmental(t *testing.T) {
	mic := testutil.Ones(10)
	residual := []float64{1, 1, 1, 1, 0.1, 0.1, 0.1, 0.1, 1, 1}

	got, err := Segmental(mic, residual, 4, 0)
	require.NoError(t, err)

	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 20, 0}, 1e-9)
}

func TestSegmentalInvalid(t *testing.T) {
	_, err := Segmental(nil, nil, 0, DefaultFloor)
	require.ErrorIs(t, err, ErrInvalidSegment)
}
