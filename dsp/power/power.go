package power

import (
	"errors"
	"fmt"
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// DefaultFloor is added to every envelope sample to keep it strictly positive.
const DefaultFloor = 1e-4

// Windows up to this many taps use direct convolution.
const directThreshold = 64

// Errors returned by the estimator.
var (
	ErrInvalidWindow  = errors.New("power: window must be >= 1")
	ErrInvalidFloor   = errors.New("power: floor must be finite and >= 0")
	ErrLengthMismatch = errors.New("power: buffer length mismatch")
)

// Estimator computes centered moving-average power envelopes for a fixed
// window size. It is safe for concurrent use.
type Estimator struct {
	window int
	floor  float64
	kernel []float64

	// FFT convolvers carry scratch buffers, so each goroutine borrows its own.
	convolvers sync.Pool
}

// New returns an estimator for the given window size and floor.
func New(window int, floor float64) (*Estimator, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	if !core.IsFinite(floor) || floor < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFloor, floor)
	}

	kernel := make([]float64, window)
	for i := range kernel {
		kernel[i] = 1 / float64(window)
	}

	e := &Estimator{
		window: window,
		floor:  floor,
		kernel: kernel,
	}

	if window > directThreshold {
		// Build one convolver eagerly so plan errors surface here, not mid-batch.
		oa, err := newOverlapAdd(kernel)
		if err != nil {
			return nil, err
		}
		e.convolvers.Put(oa)
		e.convolvers.New = func() any {
			oa, err := newOverlapAdd(kernel)
			if err != nil {
				return nil
			}
			return oa
		}
	}

	return e, nil
}

// Window returns the window size in samples.
func (e *Estimator) Window() int {
	return e.window
}

// Floor returns the additive floor.
func (e *Estimator) Floor() float64 {
	return e.floor
}

// Envelope returns the power envelope of s, with len(s) samples.
func (e *Estimator) Envelope(s []float64) []float64 {
	out := make([]float64, len(s))
	_ = e.EnvelopeTo(out, s) // lengths match by construction
	return out
}

// EnvelopeTo writes the power envelope of s into dst.
// dst must have the same length as s and must not alias it.
func (e *Estimator) EnvelopeTo(dst, s []float64) error {
	if len(dst) != len(s) {
		return fmt.Errorf("%w: dst %d, signal %d", ErrLengthMismatch, len(dst), len(s))
	}
	if len(s) == 0 {
		return nil
	}

	sq := square(s)
	// A NaN or Inf would spread over a whole FFT block; the direct sum keeps
	// it inside the window.
	if e.window <= directThreshold || !allFinite(sq) || !e.fftSame(dst, sq) {
		e.directSame(dst, sq)
	}

	e.addFloor(dst)
	return nil
}

// Envelope is a one-shot helper using DefaultFloor.
func Envelope(s []float64, window int) ([]float64, error) {
	e, err := New(window, DefaultFloor)
	if err != nil {
		return nil, err
	}
	return e.Envelope(s), nil
}

func square(s []float64) []float64 {
	sq := make([]float64, len(s))
	vecmath.MulBlock(sq, s, s)
	return sq
}

func allFinite(s []float64) bool {
	for _, v := range s {
		if !core.IsFinite(v) {
			return false
		}
	}
	return true
}

// sameOffset is the index into the full convolution of the first "same"
// output sample.
func (e *Estimator) sameOffset() int {
	return (e.window - 1) / 2
}

// directSame accumulates the boxcar convolution in the time domain and keeps
// the centered len(sq) samples.
func (e *Estimator) directSame(dst, sq []float64) {
	n := len(sq)
	full := make([]float64, n+e.window-1)
	temp := make([]float64, e.window)

	for i := 0; i < n; i++ {
		vecmath.ScaleBlock(temp, e.kernel, sq[i])
		vecmath.AddBlockInPlace(full[i:i+e.window], temp)
	}

	start := e.sameOffset()
	copy(dst, full[start:start+n])
}

// fftSame convolves via overlap-add. It reports false if no FFT convolver
// could be built or a transform failed; dst is then left for the direct path.
func (e *Estimator) fftSame(dst, sq []float64) bool {
	oa, ok := e.convolvers.Get().(*overlapAdd)
	if !ok || oa == nil {
		return false
	}
	defer e.convolvers.Put(oa)

	full, err := oa.process(sq)
	if err != nil {
		return false
	}

	start := e.sameOffset()
	copy(dst, full[start:start+len(sq)])
	return true
}

func (e *Estimator) addFloor(dst []float64) {
	if e.floor == 0 {
		return
	}
	for i := range dst {
		dst[i] += e.floor
	}
}
