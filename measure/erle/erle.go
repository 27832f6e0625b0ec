package erle

import (
	"errors"
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// DefaultFloor is added to both energies before taking the ratio.
const DefaultFloor = 1e-8

// ErrInvalidSegment is returned by Segmental for non-positive segment lengths.
var ErrInvalidSegment = errors.New("erle: segment length must be > 0")

// Result holds one ERLE measurement.
//
//nolint:revive
type Result struct {
	Samples        int
	MicEnergy      float64 // sum of mic^2
	ResidualEnergy float64 // sum of residual^2
	ERLE_dB        float64
}

// Calculate returns the ERLE in dB using DefaultFloor.
func Calculate(mic, residual []float64) float64 {
	return Analyze(mic, residual, DefaultFloor).ERLE_dB
}

// Analyze measures ERLE over the samples mic and residual have in common.
func Analyze(mic, residual []float64, floor float64) Result {
	n := min(len(mic), len(residual))
	mic, residual = mic[:n], residual[:n]

	micEnergy := vecmath.DotProduct(mic, mic)
	resEnergy := vecmath.DotProduct(residual, residual)

	return Result{
		Samples:        n,
		MicEnergy:      micEnergy,
		ResidualEnergy: resEnergy,
		ERLE_dB:        core.FlooredPowerRatioDB(micEnergy, resEnergy, floor),
	}
}

// Segmental returns the ERLE of each consecutive segment of segmentLen
// samples. A shorter trailing segment is measured as well.
func Segmental(mic, residual []float64, segmentLen int, floor float64) ([]float64, error) {
	if segmentLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSegment, segmentLen)
	}

	n := min(len(mic), len(residual))
	out := make([]float64, 0, (n+segmentLen-1)/segmentLen)
	for start := 0; start < n; start += segmentLen {
		end := min(start+segmentLen, n)
		out = append(out, Analyze(mic[start:end], residual[start:end], floor).ERLE_dB)
	}

	return out, nil
}
