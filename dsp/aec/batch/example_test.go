package batch_test

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-aec/dsp/aec"
	"github.com/cwbudde/algo-aec/dsp/aec/batch"
)

func ExampleRunner_Run() {
	canceller, err := aec.NewWithOptions(aec.WithFilterLength(32), aec.WithPowerWindow(33))
	if err != nil {
		panic(err)
	}

	utterances := make([]aec.Utterance, 2)
	for i := range utterances {
		ref := make([]float64, 3000)
		mic := make([]float64, len(ref))
		for n := range ref {
			ref[n] = 0.8 * math.Sin(2*math.Pi*200*float64(n)/16000)
			if n >= 3+i {
				mic[n] = 0.5 * ref[n-3-i]
			}
		}
		utterances[i] = aec.Utterance{Mic: mic, Ref: ref}
	}

	runner, err := batch.New(canceller, batch.WithWorkers(2))
	if err != nil {
		panic(err)
	}

	res, err := runner.Run(context.Background(), utterances)
	if err != nil {
		panic(err)
	}

	mean, ok := res.MeanERLE()
	fmt.Println("processed:", len(res.Residuals), ok)
	fmt.Println("echo reduced:", mean > 0)
	// Output:
	// processed: 2 true
	// echo reduced: true
}
