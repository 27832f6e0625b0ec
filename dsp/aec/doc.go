// Package aec implements a hand-tuned adaptive acoustic echo canceller.
//
// Given a reference signal (what the loudspeaker played) and a microphone
// capture (near-end speech plus the acoustic echo of the reference), the
// canceller estimates the echo with a leaky normalized least-mean-squares
// (NLMS) filter and returns the residual mic - echoEstimate.
//
// Per utterance the pipeline is:
//
//  1. Truncate mic and ref to the shorter of the two.
//  2. Rescale ref so its peak is commensurate with the mic peak ([NormalizeReference]).
//  3. Compute centered short-term power envelopes of both signals ([power.Estimator]).
//  4. Run the NLMS filter sample by sample. A memoryless double-talk [Gate]
//     freezes adaptation whenever mic power exceeds GateRatio times the
//     reference power; frozen samples only apply leakage to the weights.
//  5. Measure ERLE of the residual against the mic ([erle.Analyze]).
//
// # Usage
//
//	c, err := aec.New(aec.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	res, err := c.Process(aec.Utterance{Mic: mic, Ref: ref})
//	fmt.Printf("ERLE %.1f dB\n", res.ERLE_dB)
//
// For sample-at-a-time use, drive a [Filter] directly and make the gating
// decision yourself.
//
// # Variants
//
// Alternative cancellers plug in through the [Processor] interface and are
// chosen explicitly by the caller. [Passthrough] is the no-op baseline.
package aec
