package aec

// Gate is a memoryless double-talk detector.
//
// When the microphone carries much more energy than the reference can
// explain, the near end is assumed to be talking and adaptation is frozen
// so the echo-path estimate is not pulled toward near-end speech. There is
// no hangover: every sample is decided on its own.
type Gate struct {
	Ratio float64
}

// Adapt reports whether the filter may adapt at a sample with the given
// envelope powers. NaN powers freeze adaptation.
func (g Gate) Adapt(micPower, refPower float64) bool {
	return micPower < g.Ratio*refPower
}
