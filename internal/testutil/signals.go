// Package testutil provides deterministic signals and assertions shared by
// the echo-cancellation tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Echo returns ref delayed by delay samples and scaled by gain, the
// microphone capture of a single-reflection linear echo path with no
// near-end activity.
func Echo(ref []float64, delay int, gain float64) []float64 {
	out := make([]float64, len(ref))
	for n := range out {
		if k := n - delay; k >= 0 && k < len(ref) {
			out[n] = gain * ref[k]
		}
	}
	return out
}

// Mix returns the sample-wise sum of a and b, truncated to the shorter one.
func Mix(a, b []float64) []float64 {
	out := make([]float64, min(len(a), len(b)))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// Energy returns the sum of squares of s.
func Energy(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return sum
}

// MaxAbsOf returns the peak absolute value of s.
func MaxAbsOf(s []float64) float64 {
	var peak float64
	for _, v := range s {
		peak = max(peak, math.Abs(v))
	}
	return peak
}
