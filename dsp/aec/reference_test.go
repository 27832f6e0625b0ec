package aec

import "math"

// referenceCancel is a literal, allocation-heavy rendition of the pipeline:
// explicit zero-padded reference, reversed window copy per sample and a
// sample-by-sample moving average. It backs the equivalence tests.
func referenceCancel(mic, ref []float64, cfg Config) (residual, weights []float64) {
	n := min(len(mic), len(ref))
	mic, ref = mic[:n], ref[:n]

	refPeak, micPeak := referencePeak(ref), referencePeak(mic)
	scaled := make([]float64, n)
	copy(scaled, ref)
	if refPeak > 0 {
		num := 1.0
		if micPeak+NormalizeEpsilon < num {
			num = micPeak + NormalizeEpsilon
		}
		scale := num / (refPeak + NormalizeEpsilon)
		for i := range scaled {
			scaled[i] *= scale
		}
	}

	micPower := referencePower(mic, cfg.PowerWindow)
	refPower := referencePower(scaled, cfg.PowerWindow)

	L := cfg.FilterLength
	padded := make([]float64, L-1+n)
	copy(padded[L-1:], scaled)

	w := make([]float64, L)
	residual = make([]float64, n)
	for i := 0; i < n; i++ {
		x := make([]float64, L)
		for k := range x {
			x[k] = padded[i+L-1-k]
		}

		var y float64
		for k := range x {
			y += w[k] * x[k]
		}
		e := mic[i] - y
		residual[i] = e

		if micPower[i] < cfg.GateRatio*refPower[i] {
			var norm float64
			for k := range x {
				norm += x[k] * x[k]
			}
			norm += cfg.Regularization
			for k := range w {
				w[k] = (1-cfg.Leak)*w[k] + (cfg.StepSize*e/norm)*x[k]
			}
		} else {
			for k := range w {
				w[k] = (1 - cfg.Leak) * w[k]
			}
		}
	}

	return residual, w
}

// referencePeak is max|s| where any NaN makes the peak NaN.
func referencePeak(s []float64) float64 {
	var peak float64
	for _, v := range s {
		if math.IsNaN(v) {
			return math.NaN()
		}
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}

func referencePower(s []float64, window int) []float64 {
	out := make([]float64, len(s))
	start := (window - 1) / 2
	for n := range out {
		j := n + start
		var sum float64
		for i := j - window + 1; i <= j; i++ {
			if i >= 0 && i < len(s) {
				sum += s[i] * s[i]
			}
		}
		out[n] = sum/float64(window) + PowerFloor
	}
	return out
}
