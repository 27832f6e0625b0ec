// Package power computes short-term power envelopes of sampled signals.
//
// The envelope at sample n is the mean of s[k]^2 over a window of W samples
// centered on n. It is evaluated as a linear convolution of the squared
// signal with a boxcar of W taps of weight 1/W, trimmed to the input length
// ("same" mode). Samples outside the signal count as zero, so the envelope
// is biased low within W/2 samples of either edge. That bias is part of the
// contract: gating decisions downstream were tuned against it.
//
// A small floor is added to every output sample so the envelope is strictly
// positive even for digital silence.
//
// # Usage
//
//	est, err := power.New(1056, power.DefaultFloor)
//	env := est.Envelope(signal)
//
// # Algorithm Selection
//
// Windows up to 64 taps are accumulated directly in the time domain. Longer
// windows use FFT overlap-add block convolution.
package power
