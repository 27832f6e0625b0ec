package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-aec/dsp/aec"
)

// ErrNilProcessor is returned by New when no processor is given.
var ErrNilProcessor = errors.New("batch: nil processor")

// Result holds the per-utterance outcomes of one Run, in input order.
type Result struct {
	// Residuals[i] is the residual of utterance i, nil if it was not processed.
	Residuals [][]float64
	// Utterances[i] carries the diagnostics of utterance i.
	Utterances []aec.Result
	// Processed[i] reports whether utterance i ran to completion.
	Processed []bool
}

// MeanERLE returns the mean ERLE over processed utterances. ok is false
// when no utterance was processed, where the mean is undefined.
func (r Result) MeanERLE() (mean float64, ok bool) {
	var sum float64
	var n int
	for i, done := range r.Processed {
		if !done {
			continue
		}
		sum += r.Utterances[i].ERLE_dB
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Runner applies one processor to batches of utterances.
type Runner struct {
	proc    aec.Processor
	workers int
	sink    Sink
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets how many utterances run concurrently. Values below 1 are
// ignored; the default of 1 processes utterances in order.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSink sets the observability sink. A nil sink is ignored.
func WithSink(s Sink) Option {
	return func(r *Runner) {
		if s != nil {
			r.sink = s
		}
	}
}

// WithLogger sets the logger used to report sink failures. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Runner for p.
func New(p aec.Processor, opts ...Option) (*Runner, error) {
	if p == nil {
		return nil, ErrNilProcessor
	}

	r := &Runner{
		proc:    p,
		workers: 1,
		sink:    NopSink{},
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Run processes every utterance independently. On cancellation or a
// processor error it stops scheduling new utterances and returns the
// partial result together with the error.
func (r *Runner) Run(ctx context.Context, utterances []aec.Utterance) (Result, error) {
	res := Result{
		Residuals:  make([][]float64, len(utterances)),
		Utterances: make([]aec.Result, len(utterances)),
		Processed:  make([]bool, len(utterances)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, u := range utterances {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := r.proc.Process(u)
			if err != nil {
				return fmt.Errorf("batch: utterance %d: %w", i, err)
			}

			res.Residuals[i] = out.Residual
			res.Utterances[i] = out
			res.Processed[i] = true

			r.record(gctx, i, out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	// A parent cancelled before scheduling leaves utterances unprocessed
	// without any goroutine reporting it.
	if err := ctx.Err(); err != nil && !res.complete() {
		return res, err
	}
	return res, nil
}

func (r Result) complete() bool {
	for _, done := range r.Processed {
		if !done {
			return false
		}
	}
	return true
}

func (r *Runner) record(ctx context.Context, index int, out aec.Result) {
	rec := Record{
		Time:           r.now(),
		Index:          index,
		Config:         r.proc.Config(),
		Samples:        out.Samples,
		AdaptedSamples: out.AdaptedSamples,
		FrozenSamples:  out.FrozenSamples,
		ERLE_dB:        out.ERLE_dB,
	}

	if err := r.sink.Record(ctx, rec); err != nil {
		r.logger.WarnContext(ctx, "observability sink failed",
			slog.Int("index", index),
			slog.Any("error", err),
		)
	}
}
