// Package batch runs an echo-cancellation processor over a batch of
// independent utterances and aggregates the results.
//
// Utterances share only the read-only processor configuration, so they may
// run concurrently (WithWorkers) without changing any output: each one owns
// its filter state, power envelopes and residual buffer. A batch can be
// abandoned between utterances through its context; an utterance that has
// started always runs to completion.
//
// After every utterance the runner hands a Record to an observability Sink.
// Sink failures are logged and dropped; they never abort a batch.
//
// # Usage
//
//	c, _ := aec.New(aec.DefaultConfig())
//	r, _ := batch.New(c,
//		batch.WithWorkers(runtime.NumCPU()),
//		batch.WithSink(batch.NewFileSink("results/aec_runs.log")),
//	)
//	res, err := r.Run(ctx, utterances)
//	if mean, ok := res.MeanERLE(); ok {
//		fmt.Printf("mean ERLE %.2f dB\n", mean)
//	}
package batch
