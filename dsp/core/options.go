package core

// DefaultSampleRate is the capture rate of the reference echo-cancellation use case.
const DefaultSampleRate = 16000

// ProcessorConfig defines settings shared by sample-domain processors.
type ProcessorConfig struct {
	SampleRate float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the 16 kHz wideband-speech defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
	}
}

// WithSampleRate sets the processing sample rate. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// DurationToSamples converts seconds at the configured sample rate to a
// sample count, rounding to the nearest sample.
func (c ProcessorConfig) DurationToSamples(seconds float64) int {
	if seconds <= 0 || c.SampleRate <= 0 {
		return 0
	}
	return int(seconds*c.SampleRate + 0.5)
}
