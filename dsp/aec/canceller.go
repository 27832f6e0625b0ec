package aec

import (
	"github.com/cwbudde/algo-aec/dsp/power"
	"github.com/cwbudde/algo-aec/measure/erle"
)

// Utterance is one mic/ref recording pair at a common sample rate.
// Processors never modify the slices.
type Utterance struct {
	Mic []float64 // near-end capture: echo plus local speech/noise
	Ref []float64 // far-end signal sent to the loudspeaker
}

// Len returns the number of samples both signals have in common.
func (u Utterance) Len() int {
	return min(len(u.Mic), len(u.Ref))
}

// Result is the outcome of processing one utterance.
//
//nolint:revive
type Result struct {
	Residual []float64 // echo-cancelled mic, Samples long; owned by the caller
	Weights  []float64 // final filter taps, newest reference sample first; nil for variants without a filter

	Samples        int // samples processed after truncation to the shorter signal
	AdaptedSamples int // samples where the gate allowed adaptation
	FrozenSamples  int // samples where double-talk froze adaptation

	MicEnergy      float64
	ResidualEnergy float64
	ERLE_dB        float64
}

// Processor cancels echo in one utterance at a time. Implementations must
// be safe for concurrent use on different utterances.
type Processor interface {
	// Config returns the hyperparameters the processor was built with.
	Config() Config
	// Process returns the residual and diagnostics for u.
	Process(u Utterance) (Result, error)
}

// Canceller is the hand-tuned leaky NLMS echo canceller. Its configuration
// is immutable, and every Process call owns its own filter state, so one
// Canceller can serve many goroutines.
type Canceller struct {
	cfg       Config
	estimator *power.Estimator
	gate      Gate
}

var _ Processor = (*Canceller)(nil)

// New validates cfg and returns a Canceller.
func New(cfg Config) (*Canceller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	est, err := power.New(cfg.PowerWindow, PowerFloor)
	if err != nil {
		return nil, err
	}

	return &Canceller{
		cfg:       cfg,
		estimator: est,
		gate:      Gate{Ratio: cfg.GateRatio},
	}, nil
}

// NewWithOptions is New(ApplyOptions(opts...)).
func NewWithOptions(opts ...Option) (*Canceller, error) {
	return New(ApplyOptions(opts...))
}

// Config returns the canceller configuration.
func (c *Canceller) Config() Config {
	return c.cfg
}

// Process cancels the echo of u.Ref in u.Mic. Signals of different length
// are truncated to the shorter one. Numeric degeneracies (silence, NaN)
// never produce an error; NaN and Inf propagate through the arithmetic.
func (c *Canceller) Process(u Utterance) (Result, error) {
	n := u.Len()
	mic, ref := u.Mic[:n], u.Ref[:n]

	refNorm := NormalizeReference(ref, mic)
	micPower := c.estimator.Envelope(mic)
	refPower := c.estimator.Envelope(refNorm)

	f := newFilter(c.cfg)
	residual := make([]float64, n)

	var adapted int
	for i := 0; i < n; i++ {
		adapt := c.gate.Adapt(micPower[i], refPower[i])
		if adapt {
			adapted++
		}
		residual[i] = f.Process(mic[i], refNorm[i], adapt)
	}

	m := erle.Analyze(mic, residual, erle.DefaultFloor)

	return Result{
		Residual:       residual,
		Weights:        f.Weights(),
		Samples:        n,
		AdaptedSamples: adapted,
		FrozenSamples:  n - adapted,
		MicEnergy:      m.MicEnergy,
		ResidualEnergy: m.ResidualEnergy,
		ERLE_dB:        m.ERLE_dB,
	}, nil
}

// Cancel is a one-shot helper: it validates cfg and processes a single
// mic/ref pair.
func Cancel(mic, ref []float64, cfg Config) (Result, error) {
	c, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return c.Process(Utterance{Mic: mic, Ref: ref})
}

// Passthrough is the baseline processor: the residual is the microphone
// signal unchanged, so its ERLE is 0 dB.
type Passthrough struct {
	cfg Config
}

var _ Processor = Passthrough{}

// NewPassthrough returns a baseline processor reporting cfg as its
// configuration, so its runs can be compared against a Canceller's.
func NewPassthrough(cfg Config) (Passthrough, error) {
	if err := cfg.Validate(); err != nil {
		return Passthrough{}, err
	}
	return Passthrough{cfg: cfg}, nil
}

// Config returns the configuration the baseline reports.
func (p Passthrough) Config() Config {
	return p.cfg
}

// Process returns a copy of the truncated mic signal.
func (p Passthrough) Process(u Utterance) (Result, error) {
	n := u.Len()
	residual := make([]float64, n)
	copy(residual, u.Mic[:n])

	m := erle.Analyze(u.Mic[:n], residual, erle.DefaultFloor)

	return Result{
		Residual:       residual,
		Samples:        n,
		MicEnergy:      m.MicEnergy,
		ResidualEnergy: m.ResidualEnergy,
		ERLE_dB:        m.ERLE_dB,
	}, nil
}
