package aec

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-aec/dsp/core"
	"github.com/cwbudde/algo-aec/dsp/delay"
)

// Filter is a leaky NLMS adaptive filter modelling the echo path.
//
// For each sample n, with x the last L reference samples (newest first,
// zeros before the first sample):
//
//	e = mic[n] - dot(w, x)
//	w = (1-leak)*w + mu*e/(dot(x, x)+eps) * x   when adapting
//	w = (1-leak)*w                             when frozen
//
// The residual e is computed before the update, so w at sample n depends only
// on its value at n-1 and on inputs up to n.
//
// A Filter is not safe for concurrent use.
type Filter struct {
	// weights are stored oldest tap first so they line up with the
	// chronological history window; tap k (delay k) is weights[L-1-k].
	weights []float64
	history *delay.Line
	update  []float64

	stepSize       float64
	leak           float64
	regularization float64
}

// NewFilter returns a zero-initialized filter for cfg.
func NewFilter(cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newFilter(cfg), nil
}

// newFilter skips validation for configs already checked by the caller.
func newFilter(cfg Config) *Filter {
	history, _ := delay.New(cfg.FilterLength)
	return &Filter{
		weights:        make([]float64, cfg.FilterLength),
		history:        history,
		update:         make([]float64, cfg.FilterLength),
		stepSize:       cfg.StepSize,
		leak:           cfg.Leak,
		regularization: cfg.Regularization,
	}
}

// Len returns the number of taps.
func (f *Filter) Len() int {
	return len(f.weights)
}

// Process consumes one reference sample and one microphone sample and
// returns the residual. adapt selects the NLMS update; when false only
// leakage is applied.
func (f *Filter) Process(mic, ref float64, adapt bool) float64 {
	f.history.Write(ref)
	x := f.history.Window()

	e := mic - vecmath.DotProduct(f.weights, x)

	vecmath.ScaleBlockInPlace(f.weights, 1-f.leak)
	if adapt {
		norm := vecmath.DotProduct(x, x) + f.regularization
		vecmath.ScaleBlock(f.update, x, f.stepSize*e/norm)
		vecmath.AddBlockInPlace(f.weights, f.update)
	}

	return e
}

// Weights returns a copy of the current impulse-response estimate, tap 0
// (the newest reference sample) first.
func (f *Filter) Weights() []float64 {
	out := make([]float64, len(f.weights))
	last := len(f.weights) - 1
	for k := range out {
		out[k] = f.weights[last-k]
	}
	return out
}

// Reset zeroes the weights and the reference history.
func (f *Filter) Reset() {
	core.Zero(f.weights)
	f.history.Reset()
}
