package aec

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// ReferenceScale returns the gain NormalizeReference applies to ref:
//
//	min(1, max|mic| + NormalizeEpsilon) / (max|ref| + NormalizeEpsilon)
//
// A silent reference cannot be rescaled meaningfully and gets gain 1, as does
// a reference holding a NaN. A NaN in mic leaves the numerator at 1.
func ReferenceScale(ref, mic []float64) float64 {
	refPeak := peakAbs(ref)
	if !(refPeak > 0) {
		return 1
	}

	num := 1.0
	if p := peakAbs(mic) + NormalizeEpsilon; p < num {
		num = p
	}
	return num / (refPeak + NormalizeEpsilon)
}

// peakAbs returns max|s|, or NaN when s holds a NaN.
func peakAbs(s []float64) float64 {
	for _, v := range s {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	return vecmath.MaxAbs(s)
}

// NormalizeReference returns ref rescaled so its peak tracks the mic peak.
// The inputs are not modified.
func NormalizeReference(ref, mic []float64) []float64 {
	out := make([]float64, len(ref))
	NormalizeReferenceTo(out, ref, mic)
	return out
}

// NormalizeReferenceTo writes the rescaled reference into dst and returns the
// applied gain. dst must have len(ref) samples; it may alias ref.
func NormalizeReferenceTo(dst, ref, mic []float64) float64 {
	scale := ReferenceScale(ref, mic)
	if scale == 1 {
		copy(dst, ref)
		return scale
	}
	vecmath.ScaleBlock(dst, ref, scale)
	return scale
}
