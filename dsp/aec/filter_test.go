package aec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-aec/internal/testutil"
)

func smallConfig() Config {
	return ApplyOptions(WithFilterLength(16), WithPowerWindow(9))
}

func TestNewFilterRejectsInvalidConfig(t *testing.T) {
	_, err := NewFilter(ApplyOptions(WithFilterLength(0)))
	require.ErrorIs(t, err, ErrInvalidFilterLength)
}

func TestFilterStartsAtZero(t *testing.T) {
	f, err := NewFilter(smallConfig())
	require.NoError(t, err)

	assert.Equal(t, 16, f.Len())
	testutil.RequireAllZero(t, f.Weights())

	// A zero filter predicts no echo, so the first residual is the mic sample.
	assert.Equal(t, 0.75, f.Process(0.75, 1, true))
}

func TestFilterFirstUpdateHitsNewestTap(t *testing.T) {
	cfg := smallConfig()
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	e := f.Process(0.5, 2, true)
	w := f.Weights()

	want := cfg.StepSize * e / (2*2 + cfg.Regularization) * 2
	assert.InDelta(t, want, w[0], 1e-15)
	testutil.RequireAllZero(t, w[1:])
}

func TestFilterFrozenStepAppliesLeakOnly(t *testing.T) {
	cfg := smallConfig()
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	ref := testutil.DeterministicSine(200, 16000, 0.8, 200)
	mic := testutil.Echo(ref, 3, 0.5)
	for i := range 100 {
		f.Process(mic[i], ref[i], true)
	}

	prev := f.Weights()
	require.NotZero(t, testutil.MaxAbsOf(prev))

	// Inject near-end energy at ten times the gate threshold.
	g := Gate{Ratio: cfg.GateRatio}
	refPower := 0.02
	micPower := 10 * cfg.GateRatio * refPower
	adapt := g.Adapt(micPower, refPower)
	require.False(t, adapt)

	f.Process(3.0, ref[100], adapt)

	got := f.Weights()
	for k := range got {
		if got[k] != prev[k]*(1-cfg.Leak) {
			t.Fatalf("tap %d: got %v, want exactly %v", k, got[k], prev[k]*(1-cfg.Leak))
		}
	}
}

func TestFilterMatchesReferenceRecurrence(t *testing.T) {
	cfg := ApplyOptions(WithFilterLength(8), WithStepSize(0.4), WithLeak(0.05))
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	ref := testutil.DeterministicNoise(11, 0.9, 64)
	mic := testutil.Mix(testutil.Echo(ref, 2, 0.7), testutil.DeterministicNoise(12, 0.01, 64))

	// Independent recurrence over an explicitly zero-padded, reversed window.
	L := cfg.FilterLength
	padded := append(make([]float64, L-1), ref...)
	w := make([]float64, L)

	for n := range ref {
		adapt := n%5 != 0
		got := f.Process(mic[n], ref[n], adapt)

		x := make([]float64, L)
		for k := range x {
			x[k] = padded[n+L-1-k]
		}
		var y, norm float64
		for k := range x {
			y += w[k] * x[k]
			norm += x[k] * x[k]
		}
		e := mic[n] - y
		for k := range w {
			w[k] *= 1 - cfg.Leak
			if adapt {
				w[k] += cfg.StepSize * e / (norm + cfg.Regularization) * x[k]
			}
		}

		require.InDelta(t, e, got, 1e-12, "residual at sample %d", n)
	}

	testutil.RequireSliceNearlyEqual(t, f.Weights(), w, 1e-12)
}

func TestFilterIsCausal(t *testing.T) {
	cfg := smallConfig()
	ref := testutil.DeterministicNoise(5, 1, 120)
	micA := testutil.DeterministicNoise(6, 1, 120)
	micB := append(append([]float64{}, micA[:60]...), testutil.DeterministicNoise(7, 1, 60)...)

	run := func(mic []float64) []float64 {
		f, err := NewFilter(cfg)
		require.NoError(t, err)
		out := make([]float64, len(mic))
		for i := range mic {
			out[i] = f.Process(mic[i], ref[i], true)
		}
		return out
	}

	a, b := run(micA), run(micB)
	testutil.RequireSliceNearlyEqual(t, a[:60], b[:60], 0)
}

func TestFilterReset(t *testing.T) {
	f, err := NewFilter(smallConfig())
	require.NoError(t, err)

	for i := range 20 {
		f.Process(float64(i%3), 1, true)
	}
	f.Reset()

	testutil.RequireAllZero(t, f.Weights())
	assert.Equal(t, 0.25, f.Process(0.25, 1, true))
}
