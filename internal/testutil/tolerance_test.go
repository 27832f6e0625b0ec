package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1.0, 2.0, 3.0}, []float64{1.0, 2.1, 3.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, d, 1e-15)
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	require.Error(t, err)
}

func TestMaxAbsDiffIdentical(t *testing.T) {
	a := []float64{1, 2, 3}

	d, err := MaxAbsDiff(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestRequireAllZeroPasses(t *testing.T) {
	RequireAllZero(t, make([]float64, 8))
	RequireAllZero(t, nil)
}

func TestRequireFinitePasses(t *testing.T) {
	RequireFinite(t, []float64{0, -1, math.MaxFloat64})
}

func TestRequireSliceNearlyEqualNonFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	RequireSliceNearlyEqual(t, []float64{1, nan, inf, -inf}, []float64{1, nan, inf, -inf}, 0)

	tests := []struct {
		name      string
		got, want float64
	}{
		{name: "nan for finite", got: nan, want: 1},
		{name: "finite for nan", got: 1, want: nan},
		{name: "inf for nan", got: inf, want: nan},
		{name: "inf sign", got: inf, want: -inf},
		{name: "inf for finite", got: inf, want: 1},
	}

	for _, tt := range tests {
		assert.False(t, sameNonFinite(tt.got, tt.want), tt.name)
	}
}
