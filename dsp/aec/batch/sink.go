package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cwbudde/algo-aec/dsp/aec"
)

// Record is the per-utterance observability record.
//
//nolint:revive
type Record struct {
	Time           time.Time
	Index          int // position in the batch
	Config         aec.Config
	Samples        int
	AdaptedSamples int
	FrozenSamples  int
	ERLE_dB        float64
}

// Sink receives one Record per processed utterance. Implementations must be
// safe for concurrent use. Errors are reported to the runner's logger only.
type Sink interface {
	Record(ctx context.Context, r Record) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, r Record) error

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, r Record) error {
	return f(ctx, r)
}

// NopSink discards records.
type NopSink struct{}

// Record does nothing.
func (NopSink) Record(context.Context, Record) error { return nil }

// MultiSink fans a record out to several sinks and joins their errors.
type MultiSink []Sink

// Record forwards r to every sink, even after one of them fails.
func (m MultiSink) Record(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SlogSink writes each record as a structured log entry.
type SlogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogSink returns a sink logging at Info on logger, or on slog.Default
// when logger is nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, level: slog.LevelInfo}
}

// WithLevel returns a copy of the sink logging at level.
func (s *SlogSink) WithLevel(level slog.Level) *SlogSink {
	return &SlogSink{logger: s.logger, level: level}
}

// Record logs r.
func (s *SlogSink) Record(ctx context.Context, r Record) error {
	s.logger.LogAttrs(ctx, s.level, "aec utterance",
		slog.Time("time", r.Time),
		slog.Int("index", r.Index),
		slog.Int("samples", r.Samples),
		slog.Int("adapted", r.AdaptedSamples),
		slog.Int("frozen", r.FrozenSamples),
		slog.Float64("erle_db", r.ERLE_dB),
		configAttr(r.Config),
	)
	return nil
}

func configAttr(cfg aec.Config) slog.Attr {
	return slog.Group("config",
		slog.Int("filter_length", cfg.FilterLength),
		slog.Float64("step_size", cfg.StepSize),
		slog.Float64("leak", cfg.Leak),
		slog.Float64("regularization", cfg.Regularization),
		slog.Float64("gate_ratio", cfg.GateRatio),
		slog.Int("power_window", cfg.PowerWindow),
		slog.Float64("sample_rate", cfg.SampleRate),
	)
}

// FileSink appends one text line per record to a run log:
//
//	2026-01-02T15:04:05  B=0  L=1800  mu=0.6  leak=0.1  gate_ratio=200.0  pow_win=1056  ERLE=14.06 dB
//
// The file is opened in append mode for every record, so it may be rotated
// or removed between records.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink returns a sink appending to path. The file and its directory
// are not touched until the first record.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the log file path.
func (s *FileSink) Path() string {
	return s.path
}

// Record appends r to the log file.
func (s *FileSink) Record(_ context.Context, r Record) error {
	line := FormatRecord(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("batch: open run log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("batch: write run log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("batch: close run log: %w", err)
	}
	return nil
}

// runLogTime is the second-resolution local timestamp of the run log. It
// carries no zone suffix.
const runLogTime = "2006-01-02T15:04:05"

// FormatRecord renders r as one run-log line, newline included. Floats use
// the shortest round-trip form with a trailing ".0" for integral values, so
// the default gate ratio prints as 200.0.
func FormatRecord(r Record) string {
	return fmt.Sprintf("%s  B=%d  L=%d  mu=%s  leak=%s  gate_ratio=%s  pow_win=%d  ERLE=%s dB\n",
		r.Time.Format(runLogTime), r.Index, r.Config.FilterLength, formatFloat(r.Config.StepSize),
		formatFloat(r.Config.Leak), formatFloat(r.Config.GateRatio), r.Config.PowerWindow,
		formatFixed(r.ERLE_dB, 2))
}

// formatFloat writes v in shortest round-trip form. Exponent notation is
// used below 1e-4 and from 1e16 on.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatFixed(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatFloat(v)
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
