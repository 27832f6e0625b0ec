package aec

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// Defaults of the hand-tuned canceller at 16 kHz.
const (
	DefaultFilterLength   = 1800 // 112.5 ms of echo path
	DefaultStepSize       = 0.6
	DefaultLeak           = 0.1
	DefaultRegularization = 1e-3
	DefaultGateRatio      = 200.0
	DefaultPowerWindow    = 1056 // 66 ms
)

// Floors applied by the pipeline.
const (
	// NormalizeEpsilon keeps the reference rescale finite for near-silent signals.
	NormalizeEpsilon = 1e-6
	// PowerFloor is added to every power envelope sample.
	PowerFloor = 1e-4
)

// Configuration errors. Validate wraps them with the offending value.
var (
	ErrInvalidFilterLength   = errors.New("aec: filter length must be >= 1")
	ErrInvalidStepSize       = errors.New("aec: step size must be in (0, 2)")
	ErrInvalidLeak           = errors.New("aec: leak must be in [0, 1)")
	ErrInvalidRegularization = errors.New("aec: regularization must be finite and > 0")
	ErrInvalidGateRatio      = errors.New("aec: gate ratio must be finite and > 0")
	ErrInvalidPowerWindow    = errors.New("aec: power window must be >= 1")
	ErrInvalidSampleRate     = errors.New("aec: sample rate must be finite and > 0")
)

// Config holds the canceller hyperparameters. One Config is shared read-only
// by every utterance of a run.
type Config struct {
	core.ProcessorConfig

	FilterLength   int     // L, taps of echo-path memory
	StepSize       float64 // mu, NLMS adaptation rate
	Leak           float64 // per-sample weight decay
	Regularization float64 // eps added to the input energy in the NLMS step
	GateRatio      float64 // adapt only while micPower < GateRatio*refPower
	PowerWindow    int     // samples in the power envelope window
}

// Option mutates a Config.
//
// Unlike the DSP processor options, these store values as given so that
// Validate can reject bad input instead of silently keeping defaults.
type Option func(*Config)

// DefaultConfig returns the hand-tuned defaults.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		FilterLength:    DefaultFilterLength,
		StepSize:        DefaultStepSize,
		Leak:            DefaultLeak,
		Regularization:  DefaultRegularization,
		GateRatio:       DefaultGateRatio,
		PowerWindow:     DefaultPowerWindow,
	}
}

// WithSampleRate sets the sample rate used by the duration options.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		cfg.SampleRate = sampleRate
	}
}

// WithFilterLength sets the number of filter taps.
func WithFilterLength(taps int) Option {
	return func(cfg *Config) {
		cfg.FilterLength = taps
	}
}

// WithFilterDuration sets the filter length from a duration at the sample
// rate configured so far; place it after WithSampleRate.
func WithFilterDuration(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.FilterLength = cfg.DurationToSamples(d.Seconds())
	}
}

// WithStepSize sets the NLMS step size.
func WithStepSize(mu float64) Option {
	return func(cfg *Config) {
		cfg.StepSize = mu
	}
}

// WithLeak sets the per-sample weight leakage.
func WithLeak(leak float64) Option {
	return func(cfg *Config) {
		cfg.Leak = leak
	}
}

// WithRegularization sets the NLMS normalization regularizer.
func WithRegularization(eps float64) Option {
	return func(cfg *Config) {
		cfg.Regularization = eps
	}
}

// WithGateRatio sets the double-talk threshold multiplier.
func WithGateRatio(ratio float64) Option {
	return func(cfg *Config) {
		cfg.GateRatio = ratio
	}
}

// WithPowerWindow sets the power envelope window in samples.
func WithPowerWindow(samples int) Option {
	return func(cfg *Config) {
		cfg.PowerWindow = samples
	}
}

// WithPowerWindowDuration sets the power window from a duration at the
// sample rate configured so far; place it after WithSampleRate.
func WithPowerWindowDuration(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.PowerWindow = cfg.DurationToSamples(d.Seconds())
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports every hyperparameter outside its valid range.
func (c Config) Validate() error {
	var errs []error

	if c.FilterLength < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidFilterLength, c.FilterLength))
	}
	if !core.IsFinite(c.StepSize) || c.StepSize <= 0 || c.StepSize >= 2 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidStepSize, c.StepSize))
	}
	if !core.IsFinite(c.Leak) || c.Leak < 0 || c.Leak >= 1 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidLeak, c.Leak))
	}
	if !core.IsFinite(c.Regularization) || c.Regularization <= 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidRegularization, c.Regularization))
	}
	if !core.IsFinite(c.GateRatio) || c.GateRatio <= 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidGateRatio, c.GateRatio))
	}
	if c.PowerWindow < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPowerWindow, c.PowerWindow))
	}
	if !core.IsFinite(c.SampleRate) || c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate))
	}

	return errors.Join(errs...)
}

// FilterDuration returns the echo-path span covered by the filter.
func (c Config) FilterDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.FilterLength) * float64(time.Second) / c.SampleRate)
}
